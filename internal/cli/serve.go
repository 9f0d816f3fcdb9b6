package cli

import (
	"bmpsteg/internal/server"
	"bmpsteg/pkg/config"

	"github.com/spf13/cobra"
)

func ServeAppCommand(root *rootOpts) *cobra.Command {
	var port string

	command := &cobra.Command{
		Use:     "serve",
		Short:   "Serve an API to perform steganography over the web",
		Example: "bmpsteg serve --port 8888",
		RunE: func(cmd *cobra.Command, args []string) error {
			serverConf := root.conf.Server
			if port != "" {
				serverConf.Port = port
			}
			return server.StartServer(cmd.Context(), serverConf, root.conf.Stego, root.logger)
		},
	}

	command.Flags().StringVar(&port, "port", "", "Port on which to start the server, overrides the configuration file (default "+config.DefaultPort+")")

	return command
}
