package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeRelay struct {
	messages []services.ContactMessage
	err      error
}

func (f *fakeRelay) Relay(ctx context.Context, msg services.ContactMessage) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeRelay) SendTest(ctx context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "msg_test", nil
}

type fakeMedia struct {
	filename    string
	contentType string
	body        string
}

func (f *fakeMedia) Upload(ctx context.Context, filename, contentType string, body io.Reader, size int64) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.filename, f.contentType, f.body = filename, contentType, string(b)
	return "https://cdn.example.com/uploads/" + filename, nil
}

type testEnv struct {
	t      *testing.T
	router http.Handler
	auth   authHandler
	tokens *services.TokenService
	relay  *fakeRelay
	media  *fakeMedia
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := models.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	tokens, err := services.NewTokenService("test-secret", services.DefaultTokenTTL)
	if err != nil {
		t.Fatal(err)
	}
	passwords, err := services.NewPasswordHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	store := database.New(db)
	env := &testEnv{t: t, tokens: tokens, relay: &fakeRelay{}, media: &fakeMedia{}}
	env.auth = newAuthHandler(store.UserRepo(), tokens, passwords)
	env.router = newRouter(store, Dependencies{
		Tokens:    tokens,
		Passwords: passwords,
		Contact:   env.relay,
		Media:     env.media,
	}, withConfig(map[string]string{"REQUEST_LOGGING": "false"}), withStartupTime(time.Now()))
	return env
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			e.t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// register creates an account and returns its token
func (e *testEnv) register(username string) string {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/api/auth/register", "", map[string]string{"username": username, "password": "secret123"})
	if rec.Code != http.StatusOK {
		e.t.Fatalf("register %s: %d %s", username, rec.Code, rec.Body.String())
	}
	var resp tokenResponse
	decodeBody(e.t, rec, &resp)
	return resp.Token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func msgOf(t *testing.T, rec *httptest.ResponseRecorder) messageResponse {
	t.Helper()
	var resp messageResponse
	decodeBody(t, rec, &resp)
	return resp
}

func validProject(title string, priority int, date string) map[string]any {
	return map[string]any{
		"title":        title,
		"description":  "A project",
		"projectLink":  "https://example.com/" + title,
		"images":       []string{"https://example.com/a.png"},
		"technologies": []string{"Go"},
		"categories":   []string{"backend"},
		"priority":     priority,
		"date":         date,
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp healthResponse
	decodeBody(t, rec, &resp)
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
}

func TestRegisterFirstUserIsAdmin(t *testing.T) {
	env := newTestEnv(t)

	adminToken := env.register("alice")
	userToken := env.register("bob")

	admin, err := env.tokens.Verify(adminToken)
	if err != nil || !admin.IsAdmin {
		t.Errorf("first user identity = %+v, %v; want admin", admin, err)
	}
	user, err := env.tokens.Verify(userToken)
	if err != nil || user.IsAdmin {
		t.Errorf("second user identity = %+v, %v; want non-admin", user, err)
	}

	rec := env.do(http.MethodGet, "/api/auth/me", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: %d %s", rec.Code, rec.Body.String())
	}
	var me map[string]any
	decodeBody(t, rec, &me)
	if me["username"] != "alice" || me["isAdmin"] != true || me["isFirstUser"] != true {
		t.Errorf("me = %v", me)
	}
	if _, ok := me["password"]; ok {
		t.Error("me exposes the password hash")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice")

	for _, password := range []string{"secret123", "different"} {
		rec := env.do(http.MethodPost, "/api/auth/register", "", map[string]string{"username": " alice ", "password": password})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if msg := msgOf(t, rec).Msg; msg != "User already exists" {
			t.Errorf("msg = %q", msg)
		}
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/auth/register", "", map[string]string{"username": "  "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := msgOf(t, rec)
	if len(resp.Errors) != 2 {
		t.Errorf("errors = %v, want username and password", resp.Errors)
	}

	rec = env.do(http.MethodPost, "/api/auth/register", "", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d", rec.Code)
	}

	long := map[string]string{"username": "alice", "password": strings.Repeat("p", 80)}
	rec = env.do(http.MethodPost, "/api/auth/register", "", long)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("long password status = %d %s", rec.Code, rec.Body.String())
	}
	if resp := msgOf(t, rec); len(resp.Errors) != 1 || resp.Errors[0] != "Password cannot be more than 72 bytes" {
		t.Errorf("long password errors = %v", resp.Errors)
	}

	raw, _ := json.Marshal(long)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(raw))
	if _, err := env.auth.readCredentials(httptest.NewRecorder(), req); !errs.IsValidationError(err) {
		t.Errorf("readCredentials err = %v, want a validation error", err)
	}
}

func TestLoginDoesNotRevealUsernames(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice")

	ok := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": "secret123"})
	if ok.Code != http.StatusOK {
		t.Fatalf("login: %d %s", ok.Code, ok.Body.String())
	}

	wrongPassword := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": "nope"})
	unknownUser := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "mallory", "password": "nope"})

	if wrongPassword.Code != unknownUser.Code || wrongPassword.Body.String() != unknownUser.Body.String() {
		t.Errorf("wrong password = %d %s, unknown user = %d %s",
			wrongPassword.Code, wrongPassword.Body.String(), unknownUser.Code, unknownUser.Body.String())
	}
	if msg := msgOf(t, unknownUser).Msg; msg != "Invalid credentials" || unknownUser.Code != http.StatusBadRequest {
		t.Errorf("unknown user = %d %q", unknownUser.Code, msg)
	}

	ctx := context.Background()
	for _, req := range []credentialsRequest{
		{Username: "alice", Password: "nope"},
		{Username: "mallory", Password: "nope"},
	} {
		if _, err := env.auth.authenticate(ctx, req); !errs.IsInvalidCredentialsError(err) {
			t.Errorf("authenticate(%s) err = %v, want invalid credentials", req.Username, err)
		}
	}
	if user, err := env.auth.authenticate(ctx, credentialsRequest{Username: "alice", Password: "secret123"}); err != nil || user.Username != "alice" {
		t.Errorf("authenticate(alice) = %v, %v", user, err)
	}
}

func TestDecodeJSONRejectsTrailingData(t *testing.T) {
	tests := []struct {
		name string
		body string
		ok   bool
	}{
		{"single object", `{"title":"x"}`, true},
		{"trailing whitespace", "{\"title\":\"x\"}\n  ", true},
		{"trailing garbage", `{"title":"x"}garbage`, false},
		{"second object", `{"title":"x"}{"title":"y"}`, false},
		{"empty", ``, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader(tt.body))
			var dst struct {
				Title string `json:"title"`
			}
			err := decodeJSON(httptest.NewRecorder(), req, "project", &dst)
			if tt.ok {
				if err != nil || dst.Title != "x" {
					t.Errorf("got %v title %q", err, dst.Title)
				}
				return
			}
			if !errs.IsMalformedPayloadError(err) {
				t.Errorf("got %v want a malformed payload error", err)
			}
		})
	}

	env := newTestEnv(t)
	rec := env.do(http.MethodPost, "/api/auth/login", "", `{"username":"alice","password":"secret123"}garbage`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("trailing data status = %d %s", rec.Code, rec.Body.String())
	}
}

func TestAuthGate(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.register("alice")
	userToken := env.register("bob")

	expired, err := services.NewTokenService("test-secret", time.Hour, services.WithClock(func() time.Time {
		return time.Now().Add(-2 * time.Hour)
	}))
	if err != nil {
		t.Fatal(err)
	}
	expiredToken, _ := expired.Issue(uuid.New(), true)

	tests := []struct {
		name   string
		token  string
		status int
		msg    string
	}{
		{"no token", "", http.StatusUnauthorized, "No token, authorization denied"},
		{"garbage token", "abc.def.ghi", http.StatusUnauthorized, "Token is not valid"},
		{"expired token", expiredToken, http.StatusUnauthorized, "Token has expired"},
		{"non-admin", userToken, http.StatusForbidden, "Access denied. Admin privileges required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/api/projects", tt.token, validProject("gate", 0, "2024-01-01"))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if msg := msgOf(t, rec).Msg; msg != tt.msg {
				t.Errorf("msg = %q, want %q", msg, tt.msg)
			}
		})
	}

	rec := env.do(http.MethodPost, "/api/projects", adminToken, validProject("gate", 0, "2024-01-01"))
	if rec.Code != http.StatusOK {
		t.Errorf("admin create = %d %s", rec.Code, rec.Body.String())
	}
}

func TestBearerHeaderFallback(t *testing.T) {
	env := newTestEnv(t)
	token := env.register("alice")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d %s", rec.Code, rec.Body.String())
	}
}

func TestProjectValidationListsEveryField(t *testing.T) {
	env := newTestEnv(t)
	token := env.register("alice")

	body := validProject("", 0, "not-a-date")
	body["images"] = []string{}
	rec := env.do(http.MethodPost, "/api/projects", token, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}

	resp := msgOf(t, rec)
	want := map[string]bool{
		"Title is required":                                        false,
		"At least one image URL is required":                       false,
		"Project date must be YYYY-MM-DD or an RFC 3339 timestamp": false,
	}
	for _, e := range resp.Errors {
		if _, ok := want[e]; ok {
			want[e] = true
		}
	}
	for msg, seen := range want {
		if !seen {
			t.Errorf("errors %v missing %q", resp.Errors, msg)
		}
	}
}

func TestProjectLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.register("alice")

	rec := env.do(http.MethodPost, "/api/projects", token, validProject("portfolio", 1, "2024-03-01"))
	if rec.Code != http.StatusOK {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	var created models.Project
	decodeBody(t, rec, &created)
	if created.ID == uuid.Nil || created.Videos == nil || len(created.Videos) != 0 {
		t.Errorf("created = %+v", created)
	}
	if !created.Date.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v", created.Date)
	}

	var list []models.Project
	decodeBody(t, env.do(http.MethodGet, "/api/projects", "", nil), &list)
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("list = %+v", list)
	}

	rec = env.do(http.MethodGet, "/api/projects/"+created.ID.String(), "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("get = %d", rec.Code)
	}

	rec = env.do(http.MethodPut, "/api/projects/"+created.ID.String(), token, map[string]any{"title": "renamed", "liveDemo": "https://demo.example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rec.Code, rec.Body.String())
	}
	var updated models.Project
	decodeBody(t, rec, &updated)
	if updated.Title != "renamed" || updated.LiveDemo != "https://demo.example.com" || updated.Description != "A project" || updated.Priority != 1 {
		t.Errorf("updated = %+v", updated)
	}

	rec = env.do(http.MethodPut, "/api/projects/"+created.ID.String(), token, map[string]any{"technologies": []string{}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("update with empty technologies = %d", rec.Code)
	}

	rec = env.do(http.MethodDelete, "/api/projects/"+created.ID.String(), token, nil)
	if rec.Code != http.StatusOK || msgOf(t, rec).Msg != "Project removed" {
		t.Fatalf("delete: %d %s", rec.Code, rec.Body.String())
	}

	decodeBody(t, env.do(http.MethodGet, "/api/projects", "", nil), &list)
	if len(list) != 0 {
		t.Errorf("list after delete = %+v", list)
	}
}

func TestProjectListOrder(t *testing.T) {
	env := newTestEnv(t)
	token := env.register("alice")

	for _, p := range []struct {
		title    string
		priority int
		date     string
	}{
		{"jan", 5, "2024-01-01"},
		{"mar", 5, "2024-03-01T10:00:00Z"},
		{"feb", 1, "2024-02-01"},
	} {
		if rec := env.do(http.MethodPost, "/api/projects", token, validProject(p.title, p.priority, p.date)); rec.Code != http.StatusOK {
			t.Fatalf("create %s: %d %s", p.title, rec.Code, rec.Body.String())
		}
	}

	var list []models.Project
	decodeBody(t, env.do(http.MethodGet, "/api/projects", "", nil), &list)

	var got []string
	for _, p := range list {
		got = append(got, p.Title)
	}
	if strings.Join(got, ",") != "mar,jan,feb" {
		t.Errorf("order = %v, want [mar jan feb]", got)
	}
}

func TestUnknownIDsAreNotFound(t *testing.T) {
	env := newTestEnv(t)
	token := env.register("alice")
	missing := uuid.NewString()

	tests := []struct {
		method string
		path   string
		body   any
		msg    string
	}{
		{http.MethodGet, "/api/projects/" + missing, nil, "Project not found"},
		{http.MethodGet, "/api/projects/not-a-uuid", nil, "Project not found"},
		{http.MethodPut, "/api/projects/" + missing, map[string]any{"title": "x"}, "Project not found"},
		{http.MethodPut, "/api/projects/not-a-uuid", map[string]any{"title": "x"}, "Project not found"},
		{http.MethodDelete, "/api/projects/" + missing, nil, "Project not found"},
		{http.MethodPut, "/api/skills/" + missing, map[string]any{"icon": "x"}, "Skill not found"},
		{http.MethodDelete, "/api/skills/" + missing, nil, "Skill not found"},
		{http.MethodDelete, "/api/skills/42", nil, "Skill not found"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := env.do(tt.method, tt.path, token, tt.body)
			if rec.Code != http.StatusNotFound {
				t.Fatalf("status = %d %s, want 404", rec.Code, rec.Body.String())
			}
			if msg := msgOf(t, rec).Msg; msg != tt.msg {
				t.Errorf("msg = %q, want %q", msg, tt.msg)
			}
		})
	}
}

func TestSkillLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.register("alice")

	rec := env.do(http.MethodPost, "/api/skills", token, map[string]any{"category": "Languages", "icon": "code", "items": []string{"Go", " ", "SQL"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	var skill models.Skill
	decodeBody(t, rec, &skill)
	if len(skill.Items) != 2 {
		t.Errorf("items = %v, want blank entries dropped", skill.Items)
	}

	env.do(http.MethodPost, "/api/skills", token, map[string]any{"category": "Cloud", "icon": "cloud", "items": []string{"AWS"}})

	var list []models.Skill
	decodeBody(t, env.do(http.MethodGet, "/api/skills", "", nil), &list)
	if len(list) != 2 || list[0].Category != "Cloud" {
		t.Errorf("list = %+v, want Cloud first", list)
	}

	rec = env.do(http.MethodPost, "/api/skills", token, map[string]any{"category": "x"})
	if rec.Code != http.StatusBadRequest || len(msgOf(t, rec).Errors) != 2 {
		t.Errorf("invalid create = %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(http.MethodPut, "/api/skills/"+skill.ID.String(), token, map[string]any{"items": []string{"Go", "Rust"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(http.MethodDelete, "/api/skills/"+skill.ID.String(), token, nil)
	if rec.Code != http.StatusOK || msgOf(t, rec).Msg != "Skill removed" {
		t.Errorf("delete: %d %s", rec.Code, rec.Body.String())
	}
}

func TestContact(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/contact", "", map[string]string{"name": "Ada", "email": "ada@example.com"})
	if rec.Code != http.StatusBadRequest || msgOf(t, rec).Msg != "Please enter all fields" {
		t.Errorf("missing message = %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(http.MethodPost, "/api/contact", "", map[string]string{"name": "Ada", "email": "ada@example.com", "message": "hello"})
	if rec.Code != http.StatusOK || msgOf(t, rec).Msg != "Email sent successfully" {
		t.Fatalf("send = %d %s", rec.Code, rec.Body.String())
	}
	if len(env.relay.messages) != 1 || env.relay.messages[0].Name != "Ada" {
		t.Errorf("relayed = %+v", env.relay.messages)
	}

	env.relay.err = errs.NewServiceUnreachableError("resend", "Email could not be sent", errors.New("boom"))
	rec = env.do(http.MethodPost, "/api/contact", "", map[string]string{"name": "Ada", "email": "ada@example.com", "message": "hello"})
	if rec.Code != http.StatusInternalServerError || msgOf(t, rec).Msg != "Email could not be sent" {
		t.Errorf("failing relay = %d %s", rec.Code, rec.Body.String())
	}

	env.relay.err = errors.New("unexpected")
	rec = env.do(http.MethodPost, "/api/contact", "", map[string]string{"name": "Ada", "email": "ada@example.com", "message": "hello"})
	if rec.Code != http.StatusInternalServerError || msgOf(t, rec).Msg != "Email could not be sent" {
		t.Errorf("unexpected relay error = %d %s", rec.Code, rec.Body.String())
	}
}

func TestContactFailure(t *testing.T) {
	unreachable := errs.NewServiceUnreachableError("resend", "Email could not be sent", errors.New("boom"))
	if got := contactFailure("Email could not be sent", unreachable); got != unreachable {
		t.Errorf("unreachable error was rewrapped: %v", got)
	}

	got := contactFailure("Email could not be sent", errors.New("unexpected"))
	if !errs.IsInternal(got) || errs.IsServiceUnreachableError(got) {
		t.Errorf("got %v want an internal error", got)
	}
}

func TestContactTestRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.register("alice")

	if rec := env.do(http.MethodPost, "/api/contact/test", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous = %d", rec.Code)
	}

	rec := env.do(http.MethodPost, "/api/contact/test", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin = %d %s", rec.Code, rec.Body.String())
	}
	var resp contactTestResponse
	decodeBody(t, rec, &resp)
	if resp.MessageID != "msg_test" {
		t.Errorf("resp = %+v", resp)
	}
}

func multipartUpload(t *testing.T, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(content)
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestUpload(t *testing.T) {
	env := newTestEnv(t)
	token := env.register("alice")

	upload := func(filename, contentType string, content []byte) *httptest.ResponseRecorder {
		body, formType := multipartUpload(t, filename, contentType, content)
		req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
		req.Header.Set("Content-Type", formType)
		req.Header.Set("x-auth-token", token)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		return rec
	}

	rec := upload("shot.png", "image/png", []byte("fake-png"))
	if rec.Code != http.StatusOK {
		t.Fatalf("upload: %d %s", rec.Code, rec.Body.String())
	}
	var resp uploadResponse
	decodeBody(t, rec, &resp)
	if resp.URL == "" || env.media.contentType != "image/png" || env.media.body != "fake-png" {
		t.Errorf("resp = %+v, media = %+v", resp, env.media)
	}

	gif := []byte("GIF89a\x01\x00\x01\x00")
	rec = upload("anim.gif", "application/octet-stream", gif)
	if rec.Code != http.StatusOK || env.media.contentType != "image/gif" {
		t.Errorf("sniffed upload: %d, type %q", rec.Code, env.media.contentType)
	}

	rec = upload("notes.txt", "text/plain", []byte("hello"))
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("text upload = %d", rec.Code)
	}
}

func TestPanicRecovery(t *testing.T) {
	r := chi.NewRouter()
	r.Use(LogInternalServerErrors)
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if msg := msgOf(t, rec).Msg; msg != "Server error" {
		t.Errorf("msg = %q", msg)
	}
}

func TestWriteErrorHidesUnexpectedErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	NewResponder(zerolog.Nop()).WriteError(rec, errors.New("pq: password authentication failed"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "pq:") || msgOf(t, rec).Msg != "Server error" {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestParseProjectDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2024-02-29", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), true},
		{"2024-02-29T10:30:00+02:00", time.Date(2024, 2, 29, 8, 30, 0, 0, time.UTC), true},
		{"2024-02-29T10:30:00.123Z", time.Date(2024, 2, 29, 10, 30, 0, 123000000, time.UTC), true},
		{"29/02/2024", time.Time{}, false},
	}
	for _, tt := range tests {
		got, ok := parseProjectDate(tt.in)
		if ok != tt.ok || !got.Equal(tt.want) {
			t.Errorf("parseProjectDate(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
