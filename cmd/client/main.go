package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/sette-e-mezzo/internal/advice"
	"github.com/palemoky/sette-e-mezzo/internal/client"
	"github.com/palemoky/sette-e-mezzo/internal/config"
	"github.com/palemoky/sette-e-mezzo/internal/game/session"
	"github.com/palemoky/sette-e-mezzo/internal/game/table"
	"github.com/palemoky/sette-e-mezzo/internal/logger"
	"github.com/palemoky/sette-e-mezzo/internal/sound"
	"github.com/palemoky/sette-e-mezzo/internal/transport"
	"github.com/palemoky/sette-e-mezzo/internal/types"
	"github.com/palemoky/sette-e-mezzo/internal/ui"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	serverAddr := flag.String("server", "", "服务器地址（如 localhost:1780），留空则本地游戏")
	flag.Parse()

	if err := run(*configPath, *serverAddr); err != nil {
		fmt.Fprintf(os.Stderr, "启动客户端时出错: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, serverAddr string) error {
	// 日志写入文件，避免干扰界面
	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
	}
	defer logger.Close()

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.LogInfo("加载配置文件失败，使用默认配置: %v", err)
		cfg = config.Default()
		config.LoadEnv(cfg)
	}

	t, subtitle, err := openTable(cfg, serverAddr)
	if err != nil {
		return err
	}
	defer t.Close()

	opts := ui.Options{
		AdviceTimeout: cfg.Advice.Timeout(),
		Subtitle:      subtitle,
	}
	if cfg.Sound.Enabled {
		sm := sound.NewSoundManager(cfg.Sound.Dir)
		if err := sm.Init(); err != nil {
			logger.LogError("初始化音效失败: %v", err)
		} else {
			defer sm.Close()
			opts.Sound = sm
		}
	}

	model := ui.New(t, opts)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	if rt, ok := t.(*transport.RemoteTable); ok && rt.Err() != nil {
		fmt.Fprintf(os.Stderr, "连接中断: %v\n", rt.Err())
	}

	if summary := model.Summary(); summary != "" {
		fmt.Println(summary)
	}
	return nil
}

// openTable 没有服务器地址时在本进程内开桌
func openTable(cfg *config.Config, serverAddr string) (types.TableClient, string, error) {
	if serverAddr == "" {
		ctl := session.New(session.Options{
			Engine: table.NewEngine(table.Rules{
				InitialBalance: cfg.Game.InitialBalance,
				MinBet:         cfg.Game.MinBet,
				BetStep:        cfg.Game.BetStep,
			}),
			DrawDelay:   cfg.Game.DrawDelay(),
			SettleDelay: cfg.Game.SettleDelay(),
			Advisor:     advice.FromConfig(cfg.Advice, nil),
			Logger:      logger.Logger(),
		})
		return client.NewLocal(ctl), "Partita locale", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	rt, err := transport.Dial(ctx, fmt.Sprintf("ws://%s/ws", serverAddr))
	if err != nil {
		return nil, "", fmt.Errorf("连接服务器 %s 失败: %w", serverAddr, err)
	}
	return rt, "Server " + serverAddr, nil
}
