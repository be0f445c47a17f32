package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	glog "github.com/labstack/gommon/log"
	"github.com/opensilex/phis/cmd/phisd/handlers"
	kcf "github.com/opensilex/phis/pkg/configs/server"
	"github.com/opensilex/phis/pkg/conn/mongo"
	csparql "github.com/opensilex/phis/pkg/conn/sparql"
	kpg "github.com/opensilex/phis/pkg/db/postgres"
	"github.com/opensilex/phis/pkg/domain/registry"
	"github.com/opensilex/phis/pkg/security"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/shacl"
	"github.com/opensilex/phis/pkg/storage"
	"github.com/opensilex/phis/pkg/utils/echoutil"
	"github.com/opensilex/phis/pkg/utils/filewatch"
	"github.com/opensilex/phis/pkg/utils/retry"
)

func main() {
	configPath := flag.String("config-path", "", "server config path")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	flag.Parse()

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())

	// set log
	echoutil.SetLevel(e, *loglevel)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		e.DefaultHTTPErrorHandler(handlers.HTTPError(err), c)
		e.Logger.Error(err)
	}
	e.Use(echoutil.LogHandlerFunc)

	// read configfile
	conf, err := kcf.LoadServerConfig(*configPath)
	if err != nil {
		log.Fatalf("can not read configration: %s", err)
	}
	key, err := security.LoadKey(conf.Auth().KeyFile())
	if err != nil {
		log.Fatalf("can not read token key: %s", err)
	}
	issuer, err := security.NewTokenIssuer(key, conf.Auth().TTL(), conf.Auth().Issuer())
	if err != nil {
		log.Fatalf("token key is not acceptable: %s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// backends
	lvl, _ := echoutil.ParseLevel(*loglevel)
	conn := csparql.New(
		csparql.Endpoint{Server: conf.SPARQL().Server(), Repository: conf.SPARQL().Repository()},
		csparql.WithTimeout(conf.SPARQL().Timeout()),
		csparql.WithLogger(logger("sparql", lvl)),
	)
	svc := sparql.NewService(
		conn, conf.BaseURI(),
		sparql.WithLanguage(conf.DefaultLanguage()),
		sparql.WithPageSize(conf.Pagination().DefaultPageSize(), conf.Pagination().MaxPageSize()),
		sparql.WithLogger(logger("sparql", lvl)),
	)
	if err := retry.UntilPing(ctx, startupBackoff(), svc.Ping); err != nil {
		log.Fatalf("triplestore is not reachable: %s", err)
	}
	if conf.SPARQL().SHACL() {
		if err := shacl.Enable(ctx, svc, registry.Indexes()...); err != nil {
			log.Fatalf("can not load SHACL shapes: %s", err)
		}
	}

	mgo, err := mongo.Connect(
		ctx, conf.MongoDB().URI(), conf.MongoDB().Database(),
		mongo.WithTimeout(conf.SPARQL().Timeout()),
		mongo.WithLogger(logger("mongo", lvl)),
	)
	if err != nil {
		log.Fatalf("can not connect to mongodb: %s", err)
	}
	defer mgo.Disconnect(context.Background())

	db, err := kpg.New(ctx, conf.Postgres().URI())
	if err != nil {
		log.Fatalf("can not connect to postgres: %s", err)
	}
	defer db.Close()
	if err := retry.UntilPing(ctx, startupBackoff(), db.Ping); err != nil {
		log.Fatalf("postgres is not reachable: %s", err)
	}

	fs, err := storage.NewLocal(conf.Storage().Root())
	if err != nil {
		log.Fatalf("can not use file storage: %s", err)
	}

	register(e, conf.APIRoot(), newBackends(conf, svc, mgo, db, fs, issuer))
	log.Println("registred routes:")
	for _, r := range e.Routes() {
		log.Println(r.Method, r.Path)
	}

	// restart on configuration change
	watched, cancel, err := filewatch.UntilModifyContext(ctx, *configPath, conf.Auth().KeyFile())
	if err != nil {
		log.Fatalf("can not watch configration: %s", err)
	}
	defer cancel()
	context.AfterFunc(watched, func() {
		log.Println("configuration is updated or server is stopping. quit to restart server.")
		graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := e.Shutdown(graceful); err != nil {
			log.Printf("error on shutdown: %s", err)
		}
	})

	cert, certkey := *pcert, *pkey
	if cert != "" && certkey != "" {
		err = e.StartTLS(":"+conf.Port(), cert, certkey)
	} else {
		err = e.Start(":" + conf.Port())
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		e.Logger.Fatal(err)
	}
}

// startupBackoff waits for backends starting up together, about 2 minutes at most.
func startupBackoff() retry.Backoff {
	return retry.Attempts(7, retry.ExponentialBackoff(time.Second, 2))
}

func logger(prefix string, lvl glog.Lvl) *glog.Logger {
	l := glog.New(prefix)
	l.SetLevel(lvl)
	return l
}
