package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/turbot/flowpipe-form/internal/client"
	"github.com/turbot/flowpipe-form/internal/constants"
	"github.com/turbot/flowpipe-form/internal/service/api"
	"github.com/turbot/flowpipe-form/internal/theme"
)

func serverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the Flowpipe form server",
		RunE:  serverRun,
	}

	cmd.Flags().String(constants.ArgListen, constants.DefaultListen, "Listen address")
	cmd.Flags().Int(constants.ArgPort, constants.DefaultServerPort, "Listen port")

	return cmd
}

func serverRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if err := viper.BindPFlag("web.http.listen", cmd.Flags().Lookup(constants.ArgListen)); err != nil {
		return err
	}
	if err := viper.BindPFlag("web.http.port", cmd.Flags().Lookup(constants.ArgPort)); err != nil {
		return err
	}

	themeProvider, err := theme.Init(viper.GetString("theme.path"))
	if err != nil {
		return err
	}

	formClient := client.New(viper.GetString("api.base_url"))

	apiService, err := api.NewAPIService(ctx, formClient, themeProvider,
		api.WithHTTPAddress(viper.GetString("web.http.listen")),
		api.WithHTTPPort(viper.GetInt("web.http.port")))
	if err != nil {
		return err
	}

	if err := apiService.Start(); err != nil {
		return err
	}
	slog.Info("Form server started", "listen", viper.GetString("web.http.listen"), "port", viper.GetInt("web.http.port"))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}

	return apiService.Stop()
}
