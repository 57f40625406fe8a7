package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/ledgerstore/ledgertypes"
)

var findProgramCmd = &cobra.Command{
	Use:   "find-program <program-id>",
	Short: "Find the transaction that deployed a hex-encoded program ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := hex.DecodeString(args[0])
		if err != nil || len(raw) != ledgertypes.IDSize {
			return fmt.Errorf("program id must be a %d-byte hex string", ledgertypes.IDSize)
		}
		var programID ledgertypes.ProgramID
		copy(programID[:], raw)

		schema, db, err := openSchema(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		txID, ok, err := schema.Deployment.FindTransactionIDFromProgramID(programID)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Printf("no deployment found for program %s\n", programID)
			return nil
		}

		edition, err := schema.Deployment.GetEdition(programID)
		if err != nil {
			return err
		}
		fmt.Printf("program %s: transaction=%s edition=%d\n", programID, txID, edition)
		return nil
	},
}
