package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/template"

	"github.com/aura-studio/offline/http"
	"github.com/aura-studio/offline/server"
	"github.com/aura-studio/offline/velocity"
	"github.com/spf13/cobra"
)

type flags struct {
	config   string
	mode     string
	address  string
	stage    string
	template string
	debug    bool
	cors     bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "offline",
		Short: "Serve API Gateway mapping-template contexts locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd)
			if err != nil {
				return err
			}
			go waitSignal()
			return server.Serve(opts...)
		},
	}

	cmd.Flags().StringVarP(&f.config, "config", "c", "", "path to offline.yaml (default: search working and executable directories)")
	cmd.Flags().StringVar(&f.mode, "mode", "", "http or lambda")
	cmd.Flags().StringVarP(&f.address, "address", "a", "", "listen address in http mode")
	cmd.Flags().StringVarP(&f.stage, "stage", "s", "", "stage name exposed to templates")
	cmd.Flags().StringVarP(&f.template, "template", "t", "", "text/template file rendered for every request (default: echo the context)")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "enable debug mode")
	cmd.Flags().BoolVar(&f.cors, "cors", false, "answer CORS preflight requests")
	return cmd
}

func (f *flags) options(cmd *cobra.Command) ([]server.Option, error) {
	var opts []server.Option

	switch {
	case f.config != "":
		opts = append(opts, server.WithServeConfigFile(f.config))
	default:
		if p, err := velocity.FindDefaultConfigFile(); err == nil {
			opts = append(opts, server.WithServeConfigFile(p))
		}
	}

	if f.mode != "" {
		opts = append(opts, server.WithMode(f.mode))
	}
	if f.address != "" {
		opts = append(opts, server.WithHttp(http.WithAddress(f.address)))
	}
	if f.cors {
		opts = append(opts, server.WithHttp(http.WithCors()))
	}
	if f.stage != "" {
		opts = append(opts, server.WithVelocity(velocity.WithStage(f.stage)))
	}
	if cmd.Flags().Changed("debug") {
		opts = append(opts, server.WithVelocity(velocity.WithDebugMode(f.debug)))
		if f.debug {
			opts = append(opts, server.WithHttp(http.WithDebugMode()))
		}
	}

	handler := server.Handler(http.EchoContext)
	if f.template != "" {
		tmpl, err := template.ParseFiles(f.template)
		if err != nil {
			return nil, fmt.Errorf("offline: %w", err)
		}
		handler = server.Handler(http.Template(tmpl))
	}
	opts = append(opts, server.WithHandler(handler))

	return opts, nil
}

func waitSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("[Offline] shutting down")
	if err := server.Close(); err != nil {
		log.Printf("[Offline] close: %v", err)
	}
}
