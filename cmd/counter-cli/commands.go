package main

import (
	"fmt"

	"github.com/govm-net/counter/auth"
	"github.com/govm-net/counter/vm"
	"github.com/spf13/cobra"
)

var (
	keyHex  string
	slotHex string
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a signing key",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := auth.GeneratePrivateKey()
		if err != nil {
			return fmt.Errorf("failed to generate key: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Private key: %s\n", key)
		fmt.Fprintf(cmd.OutOrStdout(), "Address: %s\n", key.Address())
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a counter owned by the signing key",
	Long: `Create a counter whose authority is the signing key.
Example: counter-cli init -k <private key> [-s <slot>]`,
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := parseSlot(slotHex)
		if err != nil {
			return err
		}
		return runExecute(cmd.OutOrStdout(), dbPath, keyHex, vm.CounterProgramAddress, "initialize", vm.CounterArgs{Slot: slot})
	},
}

var incrementCmd = &cobra.Command{
	Use:   "increment",
	Short: "Increment a counter",
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := parseSlot(slotHex)
		if err != nil {
			return err
		}
		return runExecute(cmd.OutOrStdout(), dbPath, keyHex, vm.CounterProgramAddress, "increment", vm.CounterArgs{Slot: slot})
	},
}

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Show a counter",
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := parseSlot(slotHex)
		if err != nil {
			return err
		}
		return runExecute(cmd.OutOrStdout(), dbPath, "", vm.CounterProgramAddress, "get", vm.CounterArgs{Slot: slot})
	},
}

var greetCmd = &cobra.Command{
	Use:   "greet",
	Short: "Call the greeting program",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExecute(cmd.OutOrStdout(), dbPath, keyHex, vm.GreetingProgramAddress, "initialize", nil)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{initCmd, incrementCmd, greetCmd} {
		cmd.Flags().StringVarP(&keyHex, "key", "k", "", "Hex private key of the caller (required)")
		cmd.MarkFlagRequired("key")
	}
	initCmd.Flags().StringVarP(&slotHex, "slot", "s", "", "Hex slot ID, derived from the transaction when empty")
	for _, cmd := range []*cobra.Command{incrementCmd, getCmd} {
		cmd.Flags().StringVarP(&slotHex, "slot", "s", "", "Hex slot ID of the counter (required)")
		cmd.MarkFlagRequired("slot")
	}
}
