package main

import (
	"crypto/rand"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/ledgerstore/ledgerlog"
	"github.com/cuemby/ledgerstore/ledgertypes"
)

var seedCount int

func init() {
	seedCmd.Flags().IntVar(&seedCount, "count", 5, "Number of synthetic transactions to insert")
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert synthetic deploy and execute transactions for local testing",
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, db, err := openSchema(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		for i := 0; i < seedCount; i++ {
			var tx ledgertypes.Transaction
			if i%2 == 0 {
				tx, err = randomDeployTransaction()
			} else {
				tx, err = randomExecuteTransaction()
			}
			if err != nil {
				return fmt.Errorf("build fixture %d: %w", i, err)
			}

			txID, err := schema.Insert(tx)
			if err != nil {
				return fmt.Errorf("insert fixture %d: %w", i, err)
			}
			ledgerlog.WithTransactionID(txID).Info().Str("kind", tx.Kind().String()).Msg("seeded transaction")
		}
		fmt.Printf("seeded %d transactions into the store\n", seedCount)
		return nil
	},
}

func randomBytes(n int) []byte {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return b
}

func randomIdentifier() ledgertypes.Identifier {
	var id ledgertypes.Identifier
	copy(id[:], randomBytes(ledgertypes.IDSize))
	return id
}

func randomTransitionID() ledgertypes.TransitionID {
	var id ledgertypes.TransitionID
	copy(id[:], randomBytes(ledgertypes.IDSize))
	return id
}

func randomOwner() ledgertypes.ProgramOwner {
	owner, _ := ledgertypes.ProgramOwnerFromBytes(randomBytes(ledgertypes.IDSize + 64))
	return owner
}

func randomFee() ledgertypes.Fee {
	t := ledgertypes.NewTransition(randomTransitionID(), randomBytes(64))
	var root ledgertypes.StateRoot
	copy(root[:], randomBytes(ledgertypes.IDSize))
	proof := ledgertypes.NewProof(randomBytes(128))
	return ledgertypes.NewFee(t, root, &proof)
}

func randomDeployTransaction() (ledgertypes.Transaction, error) {
	fn := randomIdentifier()
	program := ledgertypes.NewProgram([]ledgertypes.Identifier{fn}, randomBytes(256))
	keys := []ledgertypes.VKEntry{{
		Function:     fn,
		VerifyingKey: ledgertypes.NewVerifyingKey(randomBytes(96)),
		Certificate:  ledgertypes.NewCertificate(randomBytes(96)),
	}}
	deployment := ledgertypes.NewDeployment(1, program, keys)
	return ledgertypes.NewDeployTransaction(randomOwner(), deployment, randomFee()), nil
}

func randomExecuteTransaction() (ledgertypes.Transaction, error) {
	transitions := []ledgertypes.Transition{
		ledgertypes.NewTransition(randomTransitionID(), randomBytes(64)),
		ledgertypes.NewTransition(randomTransitionID(), randomBytes(64)),
	}
	exec, err := ledgertypes.NewExecution(1, transitions)
	if err != nil {
		return ledgertypes.Transaction{}, err
	}
	fee := randomFee()
	return ledgertypes.NewExecuteTransaction(exec, &fee), nil
}
