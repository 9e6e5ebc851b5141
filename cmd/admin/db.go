package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	_ "modernc.org/sqlite"
)

var dbQueries = map[string]string{
	"ticks":      `SELECT tick, digest, units, nodes, commands, step_us FROM ticks ORDER BY tick DESC LIMIT ?`,
	"harvests":   `SELECT tick, unit_id, node_id, kind, amount FROM harvests ORDER BY tick DESC, seq DESC LIMIT ?`,
	"skillups":   `SELECT tick, unit_id, skill, level FROM skillups ORDER BY tick DESC, seq DESC LIMIT ?`,
	"builds":     `SELECT tick, building_id, unit_id, kind FROM builds ORDER BY tick DESC LIMIT ?`,
	"depletions": `SELECT tick, node_id FROM depletions ORDER BY tick DESC LIMIT ?`,
	"totals":     `SELECT unit_id, kind, SUM(amount) AS total FROM harvests GROUP BY unit_id, kind ORDER BY unit_id, kind LIMIT ?`,
	"catalogs":   `SELECT name, digest, updated_at FROM catalogs ORDER BY name LIMIT ?`,
}

func dbCmd(args []string) {
	fs := flag.NewFlagSet("db", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (required unless -db)")
	dbPath := fs.String("db", "", "sqlite db path (optional)")
	limit := fs.Int("limit", 20, "result limit")
	_ = fs.Parse(args)

	q := "ticks"
	if fs.NArg() > 0 {
		q = strings.TrimSpace(fs.Arg(0))
	}
	query, ok := dbQueries[q]
	if !ok {
		fmt.Fprintln(os.Stderr, "unknown query:", q)
		os.Exit(2)
	}

	path := strings.TrimSpace(*dbPath)
	if path == "" {
		if strings.TrimSpace(*worldID) == "" {
			fmt.Fprintln(os.Stderr, "missing -world or -db")
			os.Exit(2)
		}
		path = filepath.Join(*dataDir, "worlds", *worldID, "index", "world.sqlite")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := printRows(db, query, *limit); err != nil {
		fmt.Fprintln(os.Stderr, "query:", err)
		os.Exit(1)
	}
}

func printRows(db *sql.DB, query string, limit int) error {
	rows, err := db.Query(query, limit)
	if err != nil {
		return err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}
		cells := make([]string, len(vals))
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			cells[i] = fmt.Sprint(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return tw.Flush()
}
