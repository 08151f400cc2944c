package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hoshinonyaruko/snake-in-term/api"
	"github.com/hoshinonyaruko/snake-in-term/config"
	"github.com/hoshinonyaruko/snake-in-term/game"
	"github.com/hoshinonyaruko/snake-in-term/memimg"
	"github.com/hoshinonyaruko/snake-in-term/snake"
	"github.com/hoshinonyaruko/snake-in-term/sqlite"
	"github.com/hoshinonyaruko/snake-in-term/terminal"
	"golang.org/x/exp/rand"
)

func main() {
	configPath := flag.String("config", "./config.json", "path to the JSON config file")
	flag.Parse()

	// Initialize the configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 终端被游戏占用，日志写到文件
	logOut, err := openLog(cfg.LogFile)
	if err != nil {
		log.Fatalf("Failed to open log file %s: %v", cfg.LogFile, err)
	}
	log.SetOutput(logOut)

	// 字形热更新
	if watcher, err := config.WatchConfig(*configPath); err != nil {
		log.Printf("config hot reload disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	journal, err := sqlite.Open()
	if err != nil {
		fatalf("Failed to open journal: %v", err)
	}
	defer journal.Close()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(uint64(seed)))

	g := snake.NewGame(cfg.Width, cfg.Height, rng)
	g.SessionID = uuid.NewString()
	if err := journal.BeginSession(g.SessionID, cfg.Width, cfg.Height); err != nil {
		log.Printf("journal session %s: %v", g.SessionID, err)
	}

	store := memimg.NewStore()
	if cfg.Spectate {
		startSpectator(&api.Spectator{
			Store:     store,
			Events:    journal,
			Sessions:  journal,
			SessionID: g.SessionID,
			BlockSize: cfg.Blocksize,
		}, logOut)
	}

	// 最后再接管终端，之前的失败都不需要恢复终端
	screen, err := terminal.New()
	if err != nil {
		fatalf("Failed to initialise terminal: %v", err)
	}

	loop := &game.Loop{
		Display:   screen,
		Frame:     cfg.FrameDuration(),
		Rand:      rng,
		Glyphs:    config.Glyphs,
		Journal:   journal,
		Publisher: store,
	}
	reason := loop.Run(g)

	screen.Close()
	log.Printf("session %s finished: %s", g.SessionID, reason)
	fmt.Printf("Game Over! Your score was: %d\n", g.Score)
}

// fatalf reports a startup failure on stderr as well, since the log may be a file
func fatalf(format string, args ...interface{}) {
	log.Printf(format, args...)
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func openLog(path string) (io.Writer, error) {
	if path == "" {
		return io.Discard, nil
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

func startSpectator(s *api.Spectator, logOut io.Writer) {
	port, _ := config.GetConfigValue("port").(string)
	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = logOut
	gin.DefaultErrorWriter = logOut
	router := api.NewRouter(s, logOut)

	go func() {
		// 从配置读取端口 监听
		if err := router.Run(":" + port); err != nil {
			log.Printf("spectator server stopped: %v", err)
		}
	}()
	log.Printf("spectator listening on :%s", port)
}
