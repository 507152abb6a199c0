// SPDX-License-Identifier: MIT
/*
Package web is the frontend adapter: it renders the host's controls to a
browser page through a small function bridge and serves the page's
static assets from a resolved web root.

Every bridge call returns {ok:true, ...} or {ok:false, error}. The
adapter is stateless beyond the plugin host, the current input/output
paths and the block size. File and array processing share a single run
slot; the bridge refuses any call that would touch the processor or the
plugin while a run is in flight.
*/
package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"vsthost/internal/config"
	"vsthost/internal/engine"
	"vsthost/internal/floatlist"
	"vsthost/internal/log"
	"vsthost/internal/plugin"
)

// Server exposes the bridge functions and static assets over HTTP.
type Server struct {
	host       *plugin.Host
	processor  *engine.Processor
	events     *Broadcaster
	webRoot    string
	sampleRate float64

	mu         sync.Mutex
	inputPath  string
	outputPath string
	blockSize  int
	job        *engine.Job
	arrayBusy  bool
	editor     plugin.Editor

	router     *gin.Engine
	httpServer *http.Server
}

// NewServer wires the bridge around the given host and processor. The
// web root comes from cfg.WebRoot when set, otherwise from the upward
// search.
func NewServer(host *plugin.Host, processor *engine.Processor, cfg *config.Config) *Server {
	if !cfg.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	webRoot := cfg.WebRoot
	if webRoot == "" {
		webRoot = FindWebRoot()
	}

	s := &Server{
		host:       host,
		processor:  processor,
		events:     NewBroadcaster(),
		webRoot:    webRoot,
		sampleRate: cfg.SampleRate,
		inputPath:  cfg.InputFile,
		outputPath: cfg.OutputFile,
		blockSize:  config.ClampBlockSize(cfg.BlockSize),
		router:     gin.New(),
	}
	s.router.Use(gin.Recovery())

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTPHost, cfg.HTTPPort),
		Handler: s.router,
	}
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/refreshState", s.refreshState)
		api.POST("/setBlockSize", s.setBlockSize)
		api.POST("/choosePlugin", s.choosePlugin)
		api.POST("/openPluginEditor", s.openPluginEditor)
		api.POST("/chooseInputAudio", s.chooseInputAudio)
		api.POST("/chooseOutputAudio", s.chooseOutputAudio)
		api.POST("/startProcess", s.startProcess)
		api.POST("/cancelProcess", s.cancelProcess)
		api.POST("/processArray", s.processArray)
	}

	s.router.GET("/ws", func(c *gin.Context) {
		s.events.Handle(c.Writer, c.Request)
	})

	// Everything else is a static asset request.
	s.router.NoRoute(s.serveAsset)
}

// Start begins serving in the background.
func (s *Server) Start() error {
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("web server: %v", err)
		}
	}()
	return nil
}

// Stop shuts the server down gracefully and disconnects event clients.
func (s *Server) Stop(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.events.Close()
	return err
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.httpServer.Addr }

// Handler exposes the route tree, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// --- Static assets ---

func (s *Server) serveAsset(c *gin.Context) {
	if s.webRoot == "" {
		c.String(http.StatusNotFound, "web UI assets not found")
		return
	}

	requestPath := c.Request.URL.Path
	if requestPath == "" || !strings.HasPrefix(requestPath, "/") {
		requestPath = "/" + requestPath
	}
	if strings.Contains(requestPath, "..") {
		c.Status(http.StatusNotFound)
		return
	}
	if requestPath == "/" {
		requestPath = "/index.html"
	}

	file := filepath.Join(s.webRoot, filepath.FromSlash(path.Clean(requestPath)))
	data, err := os.ReadFile(file)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	c.Data(http.StatusOK, mimeTypeFor(requestPath), data)
}

// --- Bridge functions ---

func errJSON(msg string) gin.H {
	return gin.H{"ok": false, "error": msg}
}

// runInFlight reports whether a file job or an array run is currently
// using the processor and the loaded plugin. Callers hold s.mu.
func (s *Server) runInFlight() bool {
	return s.job != nil || s.arrayBusy
}

// stateJSON builds the shared state payload. Callers hold s.mu.
func (s *Server) stateJSON() gin.H {
	pluginName := "not loaded"
	if desc := s.host.Descriptor(); desc != nil {
		pluginName = desc.Name
	}
	return gin.H{
		"ok":         true,
		"pluginName": pluginName,
		"inputPath":  s.inputPath,
		"outputPath": s.outputPath,
		"blockSize":  s.blockSize,
	}
}

func (s *Server) refreshState(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.stateJSON())
}

func (s *Server) setBlockSize(c *gin.Context) {
	var req struct {
		BlockSize int `json:"blockSize"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, errJSON("missing blockSize"))
		return
	}

	n := req.BlockSize
	if n < config.MinBlockSize {
		n = config.MinBlockSize
	}

	// Only the recorded size changes here; the processor picks it up
	// when the next run is dispatched, so an in-flight worker never
	// races this write.
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blockSize = n
	c.JSON(http.StatusOK, s.stateJSON())
}

func (s *Server) choosePlugin(c *gin.Context) {
	var req struct {
		Path string `json:"path"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Path == "" {
		c.JSON(http.StatusOK, errJSON("missing plugin path"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runInFlight() {
		c.JSON(http.StatusOK, errJSON("processing already in progress"))
		return
	}

	s.processor.SetBlockSize(s.blockSize)
	if err := s.host.Load(req.Path, s.sampleRate, s.blockSize); err != nil {
		c.JSON(http.StatusOK, errJSON(err.Error()))
		return
	}
	log.Infof("loaded plugin %q from %s", s.host.Descriptor().Name, req.Path)
	c.JSON(http.StatusOK, s.stateJSON())
}

func (s *Server) openPluginEditor(c *gin.Context) {
	pl := s.host.Current()
	if pl == nil {
		c.JSON(http.StatusOK, errJSON("load a plugin first"))
		return
	}
	if !pl.HasEditor() {
		c.JSON(http.StatusOK, errJSON("plugin has no editor"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editor != nil {
		s.editor.Close()
		s.editor = nil
	}
	editor, err := pl.CreateEditor()
	if err != nil {
		c.JSON(http.StatusOK, errJSON(err.Error()))
		return
	}
	if err := editor.Open(); err != nil {
		c.JSON(http.StatusOK, errJSON(err.Error()))
		return
	}
	s.editor = editor
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) chooseInputAudio(c *gin.Context) {
	var req struct {
		Path string `json:"path"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Path == "" {
		c.JSON(http.StatusOK, errJSON("missing input path"))
		return
	}
	if !fileExists(req.Path) {
		c.JSON(http.StatusOK, errJSON("input audio file does not exist"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputPath = req.Path
	c.JSON(http.StatusOK, s.stateJSON())
}

func (s *Server) chooseOutputAudio(c *gin.Context) {
	var req struct {
		Path string `json:"path"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Path == "" {
		c.JSON(http.StatusOK, errJSON("missing output path"))
		return
	}

	out := req.Path
	if strings.ToLower(filepath.Ext(out)) != ".wav" {
		out = strings.TrimSuffix(out, filepath.Ext(out)) + ".wav"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputPath = out
	c.JSON(http.StatusOK, s.stateJSON())
}

func (s *Server) startProcess(c *gin.Context) {
	if s.host.Current() == nil {
		c.JSON(http.StatusOK, errJSON("load a plugin first"))
		return
	}

	s.mu.Lock()
	if s.runInFlight() {
		s.mu.Unlock()
		c.JSON(http.StatusOK, errJSON("processing already in progress"))
		return
	}
	if s.inputPath == "" || !fileExists(s.inputPath) {
		s.mu.Unlock()
		c.JSON(http.StatusOK, errJSON("choose an input audio file first"))
		return
	}
	if s.outputPath == "" {
		s.mu.Unlock()
		c.JSON(http.StatusOK, errJSON("choose an output path first"))
		return
	}

	outputPath := s.outputPath
	s.processor.SetBlockSize(s.blockSize)
	job := engine.NewJob(s.processor, s.inputPath, outputPath)
	s.job = job
	s.mu.Unlock()

	job.Start()
	result := job.Wait()

	s.mu.Lock()
	s.job = nil
	s.mu.Unlock()

	if !result.OK {
		s.events.Publish(gin.H{"type": "job", "ok": false, "error": result.Err.Error()})
		c.JSON(http.StatusOK, errJSON(result.Err.Error()))
		return
	}

	s.events.Publish(gin.H{"type": "job", "ok": true, "outputPath": outputPath})
	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"stats":      result.Stats,
		"outputPath": outputPath,
	})
}

func (s *Server) cancelProcess(c *gin.Context) {
	s.mu.Lock()
	job := s.job
	s.mu.Unlock()

	if job == nil {
		c.JSON(http.StatusOK, errJSON("no processing in progress"))
		return
	}
	job.Cancel()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) processArray(c *gin.Context) {
	var req struct {
		SampleRate float64 `json:"sampleRate"`
		Text       string  `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, errJSON("missing parameters"))
		return
	}

	if s.host.Current() == nil {
		c.JSON(http.StatusOK, errJSON("load a plugin first"))
		return
	}

	sampleRate := req.SampleRate
	if sampleRate <= 0 {
		sampleRate = config.DefaultSampleRate
	}

	input, err := floatlist.Parse(req.Text)
	if err != nil {
		c.JSON(http.StatusOK, errJSON(err.Error()))
		return
	}
	if len(input) == 0 {
		c.JSON(http.StatusOK, errJSON("enter at least one float value"))
		return
	}

	// Array runs drive the same plugin instance as file jobs, so they
	// take the single run slot too.
	s.mu.Lock()
	if s.runInFlight() {
		s.mu.Unlock()
		c.JSON(http.StatusOK, errJSON("processing already in progress"))
		return
	}
	s.arrayBusy = true
	s.processor.SetBlockSize(s.blockSize)
	s.mu.Unlock()

	output, err := s.processor.ProcessMono(input, sampleRate)

	s.mu.Lock()
	s.arrayBusy = false
	s.mu.Unlock()

	if err != nil {
		c.JSON(http.StatusOK, errJSON(err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "outputText": floatlist.Format(output)})
}
