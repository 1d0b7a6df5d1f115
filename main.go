package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/parcelwatch/postnl/internal/tokencache"
	"github.com/parcelwatch/postnl/pkg/postnl"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "postnl",
	Short:   "PostNL consumer tracking client",
	Version: version,
}

var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "List the tracked packages of the logged-in user",
	RunE:  runPackages,
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Obtain a session token and print it",
	RunE:  runToken,
}

func init() {
	rootCmd.AddCommand(packagesCmd)
	rootCmd.AddCommand(tokenCmd)
}

func runPackages(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.shutdown(ctx)

	packages, err := env.client.GetPackages(ctx)
	env.metrics.RecordRequest("get_packages", requestStatus(err), env.elapsed())
	if err != nil {
		if postnl.IsAuthError(err) {
			env.metrics.RecordAuthFailure("get_packages")
		}
		return err
	}

	for _, pkg := range packages {
		short := ""
		if pkg.Status.Formatted != nil {
			short = pkg.Status.Formatted.Short()
		}
		fmt.Printf("%s(%s) - %s %s\n",
			pkg.Settings.Title, pkg.Key, pkg.Status.DeliveryStatus, short)
	}

	return env.saveToken(ctx)
}

func runToken(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.shutdown(ctx)

	token, err := env.client.Token(ctx)
	env.metrics.RecordRequest("token", requestStatus(err), env.elapsed())
	if err != nil {
		if postnl.IsAuthError(err) {
			env.metrics.RecordAuthFailure("token")
		}
		return err
	}

	if env.cfg.TokenFile != "" {
		if err := tokencache.Save(env.cfg.TokenFile, token); err != nil {
			return err
		}
		env.logger.Info("Token cached", zap.String("file", env.cfg.TokenFile))
		return nil
	}

	fmt.Printf("access token: %s\nexpires: %s\n", token.Access, token.Expires)
	return nil
}

func requestStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
