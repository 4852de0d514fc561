package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/MrEthical07/argonchain/receipt"
	"github.com/spf13/cobra"
)

func newReceiptCmd(s streams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receipt",
		Short: "Work with signed run receipts",
	}
	cmd.AddCommand(newReceiptVerifyCmd(s))
	return cmd
}

func newReceiptVerifyCmd(s streams) *cobra.Command {
	var (
		keyPath string
		method  string
		issuer  string
	)

	cmd := &cobra.Command{
		Use:   "verify <token>",
		Short: "Verify a receipt and print its claims",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := os.ReadFile(keyPath)
			if err != nil {
				return fmt.Errorf("read key: %w", err)
			}

			m, err := verifier(receipt.SigningMethod(method), key, issuer)
			if err != nil {
				return err
			}
			claims, err := m.Parse(args[0])
			if err != nil {
				return fmt.Errorf("receipt rejected: %w", err)
			}

			enc := json.NewEncoder(s.out)
			enc.SetIndent("", "  ")
			return enc.Encode(claims)
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", "", "Private, public or shared key file")
	cmd.Flags().StringVar(&method, "method", string(receipt.MethodEd25519), "Signing method (ed25519|hs256)")
	cmd.Flags().StringVar(&issuer, "issuer", "argonchain", "Expected issuer")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

// verifier accepts either half of an Ed25519 key pair.
func verifier(method receipt.SigningMethod, key []byte, issuer string) (*receipt.Manager, error) {
	m, err := receipt.NewManager(receipt.Config{
		SigningMethod: method,
		PrivateKey:    key,
		Issuer:        issuer,
	})
	if err == nil || method != receipt.MethodEd25519 {
		return m, err
	}
	return receipt.NewManager(receipt.Config{
		SigningMethod: method,
		PublicKey:     key,
		Issuer:        issuer,
	})
}
