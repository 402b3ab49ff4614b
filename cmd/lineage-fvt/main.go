// Command lineage-fvt runs the lineage exchange functional verification tests against a
// running OMAG server platform.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/client"
	"github.com/MihaiIliescu/egeria/internal/fvt"
	"github.com/MihaiIliescu/egeria/pkg/logger"
)

func main() {
	serverName := flag.String("server", "cocoMDS1", "name of the OMAG server to test")
	platformURL := flag.String("platform", "http://localhost:9443", "root URL of the OMAG server platform")
	userID := flag.String("user", "garygeeke", "calling user")
	token := flag.String("token", os.Getenv("OMAG_BEARER_TOKEN"), "bearer token sent with every call")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall time limit")
	flag.Parse()

	zapLogger, err := logger.NewLogger("info")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var opts []client.Option
	opts = append(opts, client.WithLogger(zapLogger.Named("client")))
	if *token != "" {
		opts = append(opts, client.WithBearerToken(*token))
	}

	zapLogger.Info("running lineage exchange FVT",
		zap.String("server", *serverName), zap.String("platform", *platformURL))

	results := []*fvt.Results{
		fvt.CreateProcessTest(ctx, *serverName, *platformURL, *userID, opts...),
	}

	failed := false
	for _, r := range results {
		r.Log(zapLogger)
		if !r.Successful() {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}
