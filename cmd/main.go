package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"certmatch/config"
	"certmatch/pkg/analyser"
	"certmatch/pkg/api"
	"certmatch/pkg/certstream"
	"certmatch/pkg/pipeline"
	"certmatch/pkg/reporter"
	"certmatch/pkg/storage"
	"certmatch/pkg/transformer"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

func main() {
	a := kingpin.New(filepath.Base(os.Args[0]), "Spot phishing and typosquatting domains in Certificate Transparency logs")
	configFile := a.Flag("configfile", "config file").Short('c').ExistingFile()
	domainsFile := a.Flag("domains", "file with one reference domain per line").Short('d').ExistingFile()
	a.HelpFlag.Short('h')

	_, err := a.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrapf(err, "Error parsing commandline arguments"))
		a.Usage(os.Args[1:])
		os.Exit(2)
	}

	if *domainsFile != "" {
		os.Setenv("DOMAINSFILE", *domainsFile)
	}
	cfg, err := config.GetConfig(*configFile)
	if err != nil {
		log.Fatalf("Bad configuration: %v", err)
	}
	cfg.SetLogLevel()
	log.Infof("Loaded %d reference domains", len(cfg.Domains))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	analysers, err := analyser.Build(cfg.Analysers, cfg.AnalyserSettings())
	if err != nil {
		log.Fatalf("Can't build analysers: %v", err)
	}
	storages, err := storage.Build(ctx, cfg.Storages, cfg.StorageSettings())
	if err != nil {
		log.Fatalf("Can't build storages: %v", err)
	}
	reporters, err := reporter.Build(cfg.Reporters, cfg.ReporterSettings())
	if err != nil {
		log.Fatalf("Can't build reporters: %v", err)
	}

	names := make([]string, 0, len(analysers))
	for _, an := range analysers {
		names = append(names, an.Name())
	}
	log.Infof("Analysers: %s", strings.Join(names, " -> "))

	engine := pipeline.New(transformer.Certstream{}).
		WithStorages(storages...).
		WithAnalysers(analysers...).
		WithReporters(reporters...).
		WithDedup(cfg.DedupCacheSize).
		WithWorkers(cfg.Workers)
	defer engine.Close()

	if cfg.ListenAddress != "" {
		server, err := api.New(cfg.ListenAddress, engine)
		if err != nil {
			log.Fatalf("Can't create status API: %v", err)
		}
		go func() {
			if err := server.ListenAndServe(ctx); err != nil {
				log.Errorf("Status API stopped: %v", err)
			}
		}()
	}

	if err := engine.Start(ctx, certstream.New(cfg.CertstreamURL)); err != nil {
		log.Fatalf("Can't start pipeline: %v", err)
	}
	<-engine.Done()

	s := engine.Stats()
	log.Infof("Received %d messages, processed %d certificates, flagged %d", s.Received, s.Processed, s.Flagged)
}
