package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/ledgerstore/ledgertypes"
)

var getTxCmd = &cobra.Command{
	Use:   "get-tx <id>",
	Short: "Look up a transaction by its hex-encoded ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := hex.DecodeString(args[0])
		if err != nil || len(raw) != ledgertypes.IDSize {
			return fmt.Errorf("id must be a %d-byte hex string", ledgertypes.IDSize)
		}
		var txID ledgertypes.TransactionID
		copy(txID[:], raw)

		schema, db, err := openSchema(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		tx, ok, err := schema.GetTransaction(txID, 0)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Printf("no transaction found for %s\n", txID)
			return nil
		}

		fmt.Printf("transaction %s: kind=%s\n", txID, tx.Kind())
		if owner, d, fee, ok := tx.Deploy(); ok {
			fmt.Printf("  program:  %s\n", d.ProgramID())
			fmt.Printf("  edition:  %d\n", d.Edition)
			fmt.Printf("  owner:    %x\n", owner.Address)
			fmt.Printf("  fee:      transition %s\n", fee.TransitionID())
		}
		if exec, fee, ok := tx.Execute(); ok {
			fmt.Printf("  edition:     %d\n", exec.Edition())
			fmt.Printf("  transitions: %d\n", exec.Len())
			if fee != nil {
				fmt.Printf("  fee:         transition %s\n", fee.TransitionID())
			}
		}
		return nil
	},
}
