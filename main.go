package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vsthost/cmd"
	"vsthost/internal/engine"
	"vsthost/internal/log"
	"vsthost/internal/plugin"
	"vsthost/internal/web"
	"vsthost/pkg/build"
)

// main is the entry point for the offline plugin host.
// The program flow is divided into three phases:
//
// 1. Startup Phase:
//   - Initialize build information
//   - Parse command line arguments
//   - Construct the format registry, plugin host and processor
//   - Preload plugin and file paths if requested
//
// 2. Serving Phase:
//   - Start the web control surface
//   - Wait for termination signals; processing runs are dispatched
//     by the web bridge, one at a time, on a background worker
//
// 3. Shutdown Phase:
//   - Stop the web server
//   - Release the loaded plugin
func main() {
	build.Initialize()

	cfg, err := cmd.ParseArgs()
	if err != nil {
		log.Fatalf("%v", err)
	}
	if cfg.Verbose {
		log.SetLevel(log.LevelDebug)
	}

	registry := plugin.NewRegistry()
	host := plugin.NewHost(registry)
	processor := engine.New(host)
	processor.SetBlockSize(cfg.BlockSize)

	if cfg.PluginPath != "" {
		if err := host.Load(cfg.PluginPath, cfg.SampleRate, cfg.BlockSize); err != nil {
			log.Fatalf("loading plugin %s: %v", cfg.PluginPath, err)
		}
		log.Infof("loaded plugin %q", host.Descriptor().Name)
	}

	server := web.NewServer(host, processor, cfg)
	if err := server.Start(); err != nil {
		log.Fatalf("starting web server: %v", err)
	}
	log.Infof("%s %s serving on http://%s", build.GetBuildFlags().Name,
		build.GetBuildFlags().Version, server.Addr())

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		log.Errorf("stopping web server: %v", err)
	}

	host.Unload()
}
