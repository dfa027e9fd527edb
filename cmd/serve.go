package cmd

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ellenbowman/satellite-of-love/internal/api"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API and Prometheus metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		addr := e.cfg.Server.Address
		if flagAddr != "" {
			addr = flagAddr
		}
		if addr == "" {
			addr = ":8070"
		}

		gin.SetMode(gin.ReleaseMode)
		l := e.listing()
		router := api.NewRouter(l, e.recaps(l), e.log)

		ctx, cancel := signalContext()
		defer cancel()
		return router.Serve(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides server.address)")
	rootCmd.AddCommand(serveCmd)
}
