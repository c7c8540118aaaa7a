package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/code19m/errx"
	"github.com/uptrace/bun"
)

// generateSchemaSQL returns idempotent DDL for the registry tables in schema.
// Every foreign key cascades on delete and every foreign key and owner column is indexed.
func generateSchemaSQL(schema string) string { //nolint:funlen // one statement per table
	s := quoteIdent(schema)

	return fmt.Sprintf(`
CREATE SCHEMA IF NOT EXISTS %[1]s;

-- Owned by the authentication service; created here only when missing.
CREATE TABLE IF NOT EXISTS %[1]s.accounts (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    CONSTRAINT accounts_email_key UNIQUE (email)
);

CREATE TABLE IF NOT EXISTS %[1]s.occupations (
    id UUID PRIMARY KEY,
    name TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CONSTRAINT occupations_name_key UNIQUE (name)
);

CREATE TABLE IF NOT EXISTS %[1]s.nationalities (
    id UUID PRIMARY KEY,
    label TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CONSTRAINT nationalities_label_key UNIQUE (label)
);

CREATE TABLE IF NOT EXISTS %[1]s.relocation_types (
    id UUID PRIMARY KEY,
    label TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CONSTRAINT relocation_types_label_key UNIQUE (label)
);

CREATE TABLE IF NOT EXISTS %[1]s.registration_types (
    id UUID PRIMARY KEY,
    label TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CONSTRAINT registration_types_label_key UNIQUE (label)
);

CREATE TABLE IF NOT EXISTS %[1]s.residents (
    id UUID PRIMARY KEY,
    account_id TEXT NOT NULL,
    nik TEXT NOT NULL,
    name TEXT NOT NULL,
    birth_place TEXT NOT NULL,
    birth_date DATE NOT NULL,
    address TEXT NOT NULL,
    nationality_id UUID NOT NULL,
    occupation_id UUID NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CONSTRAINT residents_account_id_key UNIQUE (account_id),
    CONSTRAINT residents_nik_key UNIQUE (nik),
    CONSTRAINT residents_account_id_fkey FOREIGN KEY (account_id)
        REFERENCES %[1]s.accounts (id) ON DELETE CASCADE,
    CONSTRAINT residents_nationality_id_fkey FOREIGN KEY (nationality_id)
        REFERENCES %[1]s.nationalities (id) ON DELETE CASCADE,
    CONSTRAINT residents_occupation_id_fkey FOREIGN KEY (occupation_id)
        REFERENCES %[1]s.occupations (id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_residents_nationality_id ON %[1]s.residents (nationality_id);
CREATE INDEX IF NOT EXISTS idx_residents_occupation_id ON %[1]s.residents (occupation_id);
CREATE INDEX IF NOT EXISTS idx_residents_created_at ON %[1]s.residents (created_at DESC, id DESC);

CREATE TABLE IF NOT EXISTS %[1]s.registrations (
    id UUID PRIMARY KEY,
    account_id TEXT NOT NULL,
    resident_id UUID NOT NULL,
    relocation_type_id UUID NOT NULL,
    registration_type_id UUID NOT NULL,
    purpose TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CONSTRAINT registrations_account_id_key UNIQUE (account_id),
    CONSTRAINT registrations_account_id_fkey FOREIGN KEY (account_id)
        REFERENCES %[1]s.accounts (id) ON DELETE CASCADE,
    CONSTRAINT registrations_resident_id_fkey FOREIGN KEY (resident_id)
        REFERENCES %[1]s.residents (id) ON DELETE CASCADE,
    CONSTRAINT registrations_relocation_type_id_fkey FOREIGN KEY (relocation_type_id)
        REFERENCES %[1]s.relocation_types (id) ON DELETE CASCADE,
    CONSTRAINT registrations_registration_type_id_fkey FOREIGN KEY (registration_type_id)
        REFERENCES %[1]s.registration_types (id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_registrations_resident_id ON %[1]s.registrations (resident_id);
CREATE INDEX IF NOT EXISTS idx_registrations_relocation_type_id ON %[1]s.registrations (relocation_type_id);
CREATE INDEX IF NOT EXISTS idx_registrations_registration_type_id ON %[1]s.registrations (registration_type_id);
CREATE INDEX IF NOT EXISTS idx_registrations_created_at ON %[1]s.registrations (created_at DESC, id DESC);
`, s)
}

// Migrate creates the registry tables, constraints and indexes in schema when missing.
func Migrate(ctx context.Context, db bun.IDB, schema string) error {
	if schema == "" {
		schema = defaultSchema
	}

	_, err := db.ExecContext(ctx, generateSchemaSQL(schema))
	if err != nil {
		return errx.Wrap(err, errx.WithDetails(errx.D{"schema": schema}))
	}

	return nil
}

// CheckSearchPath returns an error unless schema is on the connection search_path.
// Queries qualify their root table with the schema, but relation joins name tables
// without it and resolve them through search_path.
func CheckSearchPath(ctx context.Context, db bun.IDB, schema string) error {
	if schema == "" {
		schema = defaultSchema
	}

	var onPath bool
	err := db.NewRaw("SELECT ? = ANY(current_schemas(false))", schema).Scan(ctx, &onPath)
	if err != nil {
		return errx.Wrap(err, errx.WithDetails(errx.D{"schema": schema}))
	}

	if !onPath {
		var searchPath string
		err = db.NewRaw("SELECT current_setting('search_path')").Scan(ctx, &searchPath)
		if err != nil {
			return errx.Wrap(err, errx.WithDetails(errx.D{"schema": schema}))
		}

		return errx.New(
			fmt.Sprintf("schema %q is not on search_path %q", schema, searchPath),
			errx.WithType(errx.T_Internal),
			errx.WithCode(CodeSchemaNotOnSearchPath),
			errx.WithDetails(errx.D{"schema": schema, "search_path": searchPath}),
		)
	}

	return nil
}

// TableNames lists the registry tables in dependency order, owners last.
func TableNames() []string {
	return []string{
		"registrations",
		"residents",
		"registration_types",
		"relocation_types",
		"nationalities",
		"occupations",
		"accounts",
	}
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
