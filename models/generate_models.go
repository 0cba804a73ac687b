package models

import (
	"fmt"
	"log"
	"os"
	"sort"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
Column Mismatch Report Usage:

This file contains functionality to generate a report of database columns that aren't
accounted for as fields in the corresponding Go model structs.

To generate the report:

1. Set the environment variable: GENERATE_COLUMN_REPORT=true
2. Run the application: go run .

Example output:
=== COLUMN MISMATCH REPORT ===
--- Table: projects ---
Found 1 columns not accounted for in model:
  - legacy_slug

--- Table: skills ---
All columns are accounted for in the model.

=== SUMMARY ===
Total mismatched columns across all tables: 1
*/

// AllModels lists every persisted model, in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Project{},
		&Skill{},
	}
}

// Migrate creates or updates the tables for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

func GenerateModels(db *gorm.DB) {
	// First, ensure the database is ready
	if err := db.Exec("SELECT 1").Error; err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	// Set up verbose logging for migration
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./generated",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface | gen.WithoutContext,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})

	// Use GORM's database connection
	g.UseDB(db)

	// Specify models for which to generate code
	g.ApplyBasic(
		User{},
		Project{},
		Skill{},
	)

	// Create a new session for migration with specific settings
	migrateDB := db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
		Logger:                 newLogger,
	})

	fmt.Println("Migrating models...")
	if err := Migrate(migrateDB); err != nil {
		fmt.Printf("Error during models migration: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Database migration completed successfully!")

	// Generate column mismatch report
	GenerateColumnMismatchReport(db)

	// Execute the code generation
	g.Execute()
	fmt.Println("Model generation complete!")
}

// GenerateColumnMismatchReport prints a report of database columns that aren't accounted for in Go models
func GenerateColumnMismatchReport(db *gorm.DB) {
	fmt.Println("=== COLUMN MISMATCH REPORT ===")
	fmt.Println("Generating report of database columns not accounted for in Go models...")

	report, err := ColumnMismatches(db)
	if err != nil {
		fmt.Printf("Error building report: %v\n", err)
		return
	}

	tables := make([]string, 0, len(report))
	for table := range report {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	totalMismatches := 0
	for _, tableName := range tables {
		fmt.Printf("\n--- Table: %s ---\n", tableName)

		mismatches := report[tableName]
		if mismatches == nil {
			fmt.Printf("Table does not exist yet (will be created during migration)\n")
			continue
		}

		if len(mismatches) > 0 {
			fmt.Printf("Found %d columns not accounted for in model:\n", len(mismatches))
			for _, col := range mismatches {
				fmt.Printf("  - %s\n", col)
			}
			totalMismatches += len(mismatches)
		} else {
			fmt.Println("All columns are accounted for in the model.")
		}
	}

	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Printf("Total mismatched columns across all tables: %d\n", totalMismatches)
}

// ColumnMismatches maps each model's table to the database columns no model field
// covers. A nil entry means the table does not exist.
func ColumnMismatches(db *gorm.DB) (map[string][]string, error) {
	report := make(map[string][]string)

	for _, model := range AllModels() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("error parsing model %T: %w", model, err)
		}
		tableName := stmt.Schema.Table

		if !db.Migrator().HasTable(tableName) {
			report[tableName] = nil
			continue
		}

		dbColumns, err := getTableColumns(db, tableName)
		if err != nil {
			return nil, err
		}

		modelFields := make([]string, 0, len(stmt.Schema.DBNames))
		modelFields = append(modelFields, stmt.Schema.DBNames...)

		report[tableName] = findColumnMismatches(dbColumns, modelFields)
	}

	return report, nil
}

// getTableColumns retrieves column names from a database table
func getTableColumns(db *gorm.DB, tableName string) ([]string, error) {
	columnTypes, err := db.Migrator().ColumnTypes(tableName)
	if err != nil {
		return nil, fmt.Errorf("error querying columns for table %s: %w", tableName, err)
	}

	columns := make([]string, 0, len(columnTypes))
	for _, ct := range columnTypes {
		columns = append(columns, ct.Name())
	}
	return columns, nil
}

// findColumnMismatches finds columns that exist in the database but not in the model
func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool)
	for _, field := range modelFields {
		modelFieldSet[field] = true
	}

	mismatches := []string{}
	for _, col := range dbColumns {
		if !modelFieldSet[col] {
			mismatches = append(mismatches, col)
		}
	}

	return mismatches
}

// GenerateColumnMismatchReportStandalone generates a report without running migrations
func GenerateColumnMismatchReportStandalone(db *gorm.DB) {
	// First, ensure the database is ready
	if err := db.Exec("SELECT 1").Error; err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	GenerateColumnMismatchReport(db)
}
