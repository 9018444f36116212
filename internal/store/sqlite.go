package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/camilodvr/censopueblos/internal/dataset"
)

const relationalDDL = `
PRAGMA foreign_keys = ON;
CREATE TABLE IF NOT EXISTS peoples (
  people_code TEXT PRIMARY KEY,
  name        TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS departments (
  department_code TEXT PRIMARY KEY,
  name            TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS municipalities (
  municipality_code TEXT PRIMARY KEY,
  name              TEXT NOT NULL,
  department_code   TEXT NOT NULL REFERENCES departments(department_code)
);
CREATE TABLE IF NOT EXISTS population_geo_2018 (
  id                INTEGER PRIMARY KEY AUTOINCREMENT,
  municipality_code TEXT NOT NULL REFERENCES municipalities(municipality_code),
  people_code       TEXT NOT NULL,
  population        INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS population_age_sex_2018 (
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  people_code TEXT NOT NULL,
  sex         TEXT NOT NULL,
  age_range   TEXT NOT NULL,
  population  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS population_series (
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  people_code TEXT NOT NULL,
  year        INTEGER NOT NULL,
  population  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS class_territory (
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  people_code TEXT NOT NULL,
  class       TEXT NOT NULL,
  territory   TEXT NOT NULL,
  population  INTEGER NOT NULL
);
`

// MaterializeSQLite validates the relational snapshot against the reference
// totals and, when consistent, creates the schema at path and bulk-inserts
// every table inside one transaction. A failed consistency check aborts
// before anything is written.
func MaterializeSQLite(data *dataset.RelationalData, path string) error {
	if err := data.Validate(); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("open sqlite db: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(relationalDDL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin insert transaction: %w", err)
	}
	defer tx.Rollback()

	for _, r := range data.Peoples {
		if _, err := tx.Exec(`INSERT INTO peoples (people_code, name) VALUES (?, ?)`,
			r.Code, r.Name); err != nil {
			return fmt.Errorf("insert people %s: %w", r.Code, err)
		}
	}
	for _, r := range data.Departments {
		if _, err := tx.Exec(`INSERT INTO departments (department_code, name) VALUES (?, ?)`,
			r.Code, r.Name); err != nil {
			return fmt.Errorf("insert department %s: %w", r.Code, err)
		}
	}
	for _, r := range data.Municipalities {
		if _, err := tx.Exec(
			`INSERT INTO municipalities (municipality_code, name, department_code) VALUES (?, ?, ?)`,
			r.Code, r.Name, r.DepartmentCode); err != nil {
			return fmt.Errorf("insert municipality %s: %w", r.Code, err)
		}
	}
	for _, r := range data.PopulationGeo {
		if _, err := tx.Exec(
			`INSERT INTO population_geo_2018 (municipality_code, people_code, population) VALUES (?, ?, ?)`,
			r.MunicipalityCode, r.PeopleCode, r.Population); err != nil {
			return fmt.Errorf("insert population_geo_2018 row: %w", err)
		}
	}
	for _, r := range data.AgeSex {
		if _, err := tx.Exec(
			`INSERT INTO population_age_sex_2018 (people_code, sex, age_range, population) VALUES (?, ?, ?, ?)`,
			r.PeopleCode, r.Sex, r.AgeRange, r.Population); err != nil {
			return fmt.Errorf("insert population_age_sex_2018 row: %w", err)
		}
	}
	for _, r := range data.Series {
		if _, err := tx.Exec(
			`INSERT INTO population_series (people_code, year, population) VALUES (?, ?, ?)`,
			r.PeopleCode, r.Year, r.Population); err != nil {
			return fmt.Errorf("insert population_series row: %w", err)
		}
	}
	for _, r := range data.ClassTerritory {
		if _, err := tx.Exec(
			`INSERT INTO class_territory (people_code, class, territory, population) VALUES (?, ?, ?, ?)`,
			r.PeopleCode, r.Class, r.Territory, r.Population); err != nil {
			return fmt.Errorf("insert class_territory row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit inserts: %w", err)
	}
	return nil
}
