package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	glog "github.com/labstack/gommon/log"
	kcf "github.com/opensilex/phis/pkg/configs/server"
	csparql "github.com/opensilex/phis/pkg/conn/sparql"
	kdb "github.com/opensilex/phis/pkg/db"
	kpg "github.com/opensilex/phis/pkg/db/postgres"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/utils/echoutil"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	loglevel   string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "phisadm",
		Short:         "administration of a phis server",
		Long:          "phisadm upgrades the database schema, registers users and manages graphs of the triplestore.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config-path", os.Getenv("PHIS_CONFIG"), "server config path")
	root.PersistentFlags().StringVar(&flags.loglevel, "loglevel", "info", "log level. debug|info|warn|error|off")

	root.AddCommand(
		newSchemaCommand(flags),
		newUserCommand(flags),
		newSHACLCommand(flags),
		newGraphCommand(flags),
	)
	return root
}

func (f *rootFlags) config() (*kcf.Config, error) {
	if f.configPath == "" {
		return nil, fmt.Errorf("--config-path (or PHIS_CONFIG) is required")
	}
	return kcf.LoadServerConfig(f.configPath)
}

func (f *rootFlags) logger(prefix string) *glog.Logger {
	l := glog.New(prefix)
	lvl, ok := echoutil.ParseLevel(f.loglevel)
	if !ok {
		lvl = glog.INFO
	}
	l.SetLevel(lvl)
	return l
}

// triplestore connects the repository of the config.
func (f *rootFlags) triplestore() (*sparql.Service, error) {
	conf, err := f.config()
	if err != nil {
		return nil, err
	}
	conn := csparql.New(
		csparql.Endpoint{Server: conf.SPARQL().Server(), Repository: conf.SPARQL().Repository()},
		csparql.WithTimeout(conf.SPARQL().Timeout()),
		csparql.WithLogger(f.logger("sparql")),
	)
	return sparql.NewService(
		conn, conf.BaseURI(),
		sparql.WithLanguage(conf.DefaultLanguage()),
		sparql.WithLogger(f.logger("sparql")),
	), nil
}

// database connects the postgres of the config. Callers should close it.
func (f *rootFlags) database(ctx context.Context) (kdb.Database, *kcf.Config, error) {
	conf, err := f.config()
	if err != nil {
		return nil, nil, err
	}
	db, err := kpg.New(ctx, conf.Postgres().URI())
	if err != nil {
		return nil, nil, err
	}
	return db, conf, nil
}

func closeOrLog(db kdb.Database) {
	if err := db.Close(); err != nil {
		log.Printf("closing database: %s", err)
	}
}
