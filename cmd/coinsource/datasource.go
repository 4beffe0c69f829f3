package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/utxoforge/coinsource/internal/config"
	"github.com/utxoforge/coinsource/internal/core/application"
)

var (
	requireConfirmed  bool
	minSatoshi        uint64
	onlyConfirmed     bool
	noCache           bool
	allowInsufficient bool
	onlyNonAssetBound bool
	excludedOutpoints []string
	cacheKey          string

	outputCmd = &cobra.Command{
		Use:   "output <txid> <vout>",
		Short: "resolve a single transaction output",
		Long: "this command resolves the given outpoint and tells whether it " +
			"is a spendable utxo or a data-carrier output",
		Args: cobra.ExactArgs(2),
		RunE: resolveOutput,
	}
	utxosCmd = &cobra.Command{
		Use:   "utxos <address>",
		Short: "list the unspent outputs of an address",
		Args:  cobra.ExactArgs(1),
		RunE:  listUtxos,
	}
	collectCmd = &cobra.Command{
		Use:   "collect <address> <amount>",
		Short: "select utxos covering a target amount in satoshi",
		Long: "this command runs a coin selection over the unspent set of the " +
			"given address, accumulating utxos in deterministic order until the " +
			"target amount is covered",
		Args: cobra.ExactArgs(2),
		RunE: collectSatoshi,
	}
	paymasterCmd = &cobra.Command{
		Use:   "paymaster",
		Short: "show the fee-paying counterparty configured on the remote service",
		Args:  cobra.NoArgs,
		RunE:  showPaymaster,
	}
)

func init() {
	outputCmd.Flags().BoolVar(
		&requireConfirmed, "confirmed", false,
		"fail if the transaction owning the output is unconfirmed",
	)

	utxosCmd.Flags().Uint64Var(
		&minSatoshi, "min-satoshi", uint64(config.GetInt(config.MinUtxoValueKey)),
		"exclude utxos below this value",
	)
	utxosCmd.Flags().BoolVar(
		&onlyConfirmed, "only-confirmed", false, "exclude mempool utxos",
	)
	utxosCmd.Flags().BoolVar(
		&noCache, "no-cache", false, "skip the remote service cache",
	)

	collectCmd.Flags().Uint64Var(
		&minSatoshi, "min-satoshi", uint64(config.GetInt(config.MinUtxoValueKey)),
		"exclude utxos below this value",
	)
	collectCmd.Flags().BoolVar(
		&onlyConfirmed, "only-confirmed", false, "exclude mempool utxos",
	)
	collectCmd.Flags().BoolVar(
		&noCache, "no-cache", false, "skip the remote service cache",
	)
	collectCmd.Flags().BoolVar(
		&allowInsufficient, "allow-insufficient", false,
		"return a partial result instead of failing when the target cannot be covered",
	)
	collectCmd.Flags().BoolVar(
		&onlyNonAssetBound, "only-non-asset-bound", false,
		"exclude utxos bound to off-chain assets",
	)
	collectCmd.Flags().StringArrayVar(
		&excludedOutpoints, "exclude", nil,
		"outpoint (txid:vout) that must not be selected, repeatable",
	)
	collectCmd.Flags().StringVar(
		&cacheKey, "cache-key", "",
		"memoize the candidate list under this key",
	)
}

func resolveOutput(_ *cobra.Command, args []string) error {
	txid := args[0]
	vout, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid vout: %s", err)
	}

	ds, err := getDataSource()
	if err != nil {
		return err
	}

	ctx := context.Background()
	utxo, err := ds.GetUtxo(ctx, txid, uint32(vout), requireConfirmed)
	if err != nil {
		printErr(err)
		return nil
	}
	if utxo == nil {
		fmt.Println("output not found")
		return nil
	}

	printJSON(utxo)
	return nil
}

func listUtxos(_ *cobra.Command, args []string) error {
	ds, err := getDataSource()
	if err != nil {
		return err
	}

	utxos, err := ds.GetUtxos(context.Background(), args[0], application.ListOptions{
		MinSatoshi:    minSatoshi,
		OnlyConfirmed: onlyConfirmed,
		NoCache:       noCache,
	})
	if err != nil {
		printErr(err)
		return nil
	}

	printJSON(utxos)
	return nil
}

func collectSatoshi(_ *cobra.Command, args []string) error {
	targetAmount, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount: %s", err)
	}
	excluded, err := parseOutpoints(excludedOutpoints)
	if err != nil {
		return err
	}

	ds, err := getDataSource()
	if err != nil {
		return err
	}

	result, err := ds.CollectSatoshi(context.Background(), application.CollectRequest{
		Address:           args[0],
		TargetAmount:      targetAmount,
		MinUtxoValue:      minSatoshi,
		AllowInsufficient: allowInsufficient,
		OnlyNonAssetBound: onlyNonAssetBound,
		OnlyConfirmed:     onlyConfirmed,
		NoCache:           noCache,
		Excluded:          excluded,
		CacheKey:          cacheKey,
	})
	if err != nil {
		printErr(err)
		return nil
	}

	printJSON(result)
	return nil
}

func showPaymaster(_ *cobra.Command, _ []string) error {
	ds, err := getDataSource()
	if err != nil {
		return err
	}

	paymaster, err := ds.GetPaymasterOutput(context.Background())
	if err != nil {
		printErr(err)
		return nil
	}
	if paymaster == nil {
		fmt.Println("no paymaster configured")
		return nil
	}

	printJSON(paymaster)
	return nil
}
