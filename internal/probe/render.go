package probe

import (
	"fmt"
	"io"

	"dbprobe/internal/storage"
)

const separator = "--------------------------------------------------"

// RenderHeader writes the lines printed before connecting.
func RenderHeader(w io.Writer, cfg storage.Config) {
	writeHeader(w, cfg.Engine(), cfg.Host, cfg.Username, cfg.Port)
}

// RenderResult writes everything after the header: the sections the run
// reached, then the outcome.
func RenderResult(w io.Writer, r *Report, err error) {
	if r.Reached(StageConnected) {
		fmt.Fprintln(w, "✓ Successfully connected to the database!")
	}
	if r.Reached(StageVersion) {
		fmt.Fprintf(w, "\nDatabase version: %s\n", r.Version)
	}
	if r.Reached(StageCurrentDatabase) {
		fmt.Fprintf(w, "Current database: %s\n", r.CurrentDatabase)
	}
	if r.Reached(StageDatabases) {
		fmt.Fprintln(w, "\nAvailable databases:")
		for _, db := range r.Databases {
			fmt.Fprintf(w, "  - %s\n", db)
		}
	}
	if r.Reached(StageTables) && r.Primary != nil {
		fmt.Fprintf(w, "\nTables in current database (%s):\n", r.CurrentDatabase)
		writeTables(w, r.Primary)
	}
	if r.Secondary != nil {
		fmt.Fprintf(w, "\nChecking '%s' database...\n", r.Secondary.Database)
		if r.Reached(StageSecondaryTables) {
			fmt.Fprintf(w, "\nTables in '%s' database:\n", r.Secondary.Database)
			writeTables(w, r.Secondary)
		}
	}

	switch KindOf(err) {
	case KindOperational:
		fmt.Fprintf(w, "✗ Connection failed: %v\n", err)
		fmt.Fprintln(w, "\nPossible issues:")
		fmt.Fprintln(w, "  - Database server is not running")
		fmt.Fprintf(w, "  - Host '%s' is not reachable\n", r.Host)
		fmt.Fprintln(w, "  - Incorrect credentials")
		fmt.Fprintln(w, "  - Firewall blocking the connection")
		return
	case KindGeneric:
		fmt.Fprintf(w, "✗ Error: %v\n", err)
		return
	}
	if err != nil {
		fmt.Fprintf(w, "✗ Error: %v\n", err)
		return
	}

	if r.Reached(StageClosed) {
		fmt.Fprintln(w, "\n✓ Connection closed successfully")
	}
}

// Render writes the complete console output of a run.
func Render(w io.Writer, r *Report, err error) {
	writeHeader(w, r.Engine, r.Host, r.User, r.Port)
	RenderResult(w, r, err)
}

func writeHeader(w io.Writer, engine, host, user string, port int) {
	fmt.Fprintf(w, "Attempting to connect to %s database...\n", engine)
	fmt.Fprintf(w, "Host: %s\n", host)
	fmt.Fprintf(w, "User: %s\n", user)
	fmt.Fprintf(w, "Port: %d\n", port)
	fmt.Fprintln(w, separator)
}

func writeTables(w io.Writer, listing *TableListing) {
	if len(listing.Tables) == 0 {
		fmt.Fprintln(w, "  (no tables found)")
		return
	}
	for _, table := range listing.Tables {
		fmt.Fprintf(w, "  - %s\n", table)
		for _, col := range listing.Columns[table] {
			fmt.Fprintf(w, "    - %s (%s)%s\n", col.Name, col.Type, notNull(col))
		}
	}
}

func notNull(col storage.Column) string {
	if col.Nullable {
		return ""
	}
	return " NOT NULL"
}
