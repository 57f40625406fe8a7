package main

import (
	"fmt"

	"github.com/spf13/cobra"
	bolt "go.etcd.io/bbolt"

	"github.com/cuemby/ledgerstore/txstore"
)

// openSchema opens the bbolt file named by the --db flag and wires a
// full Schema over it. The caller is responsible for closing the
// returned *bolt.DB once done.
func openSchema(cmd *cobra.Command) (*txstore.Schema, *bolt.DB, error) {
	path, _ := cmd.Flags().GetString("db")
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}

	var dev []uint16
	if cmd.Flags().Changed("dev") {
		tag, _ := cmd.Flags().GetUint16("dev")
		dev = []uint16{tag}
	}

	schema, err := txstore.Open(db, dev...)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("wire schema over %s: %w", path, err)
	}
	return schema, db, nil
}
