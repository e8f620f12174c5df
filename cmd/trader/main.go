package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"auto-trader-go/config"
	"auto-trader-go/gateway"
	"auto-trader-go/infrastructure/logger"
	"auto-trader-go/internal/engine"
	"auto-trader-go/internal/journal"
	"auto-trader-go/market"
	"auto-trader-go/metrics"
	"auto-trader-go/order"
)

func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	metricsAddr := flag.String("metricsAddr", "", "Prometheus metrics 监听地址，覆盖配置文件；留空则用配置")
	flag.Parse()

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	logg, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logg.Close()

	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}
	var met *metrics.Set
	if cfg.Metrics.Addr != "" {
		met = metrics.New(cfg.Instrument.Symbol)
		metrics.Serve(cfg.Metrics.Addr)
	}

	var recorder engine.FillRecorder
	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			log.Fatalf("打开成交流水失败: %v", err)
		}
		defer j.Close()
		recorder = j
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := gateway.NewFeed(cfg.Gateway.Endpoint, cfg.Gateway.Name, cfg.Gateway.Secret, logg.Logger)
	if err := feed.Dial(ctx); err != nil {
		log.Fatalf("连接交易所失败: %v", err)
	}
	defer feed.Close()

	ctrl, err := engine.NewController(engineConfig(cfg), feed, logg, met, recorder)
	if err != nil {
		log.Fatalf("初始化控制器失败: %v", err)
	}
	disp := engine.NewDispatcher(1024, ctrl, logg)

	go func() {
		if err := feed.Run(ctx, disp.Inbox()); err != nil {
			logg.LogError(err, map[string]interface{}{"stage": "feed"})
			cancel()
		}
	}()

	// 仅热更新日志级别；交易参数在本次会话内固定。
	go func() {
		w := config.Watcher{Path: *cfgPath}
		_ = w.Start(ctx, func(next config.AppConfig) {
			if err := logg.SetLevel(next.Logging.Level); err != nil {
				logg.LogError(err, map[string]interface{}{"stage": "config_reload"})
			}
		})
	}()

	go handleSignals(cancel, logg)
	notifySystemd(ctx, logg)

	if err := disp.Run(ctx); err != nil && err != context.Canceled {
		logg.LogError(err, map[string]interface{}{"stage": "dispatcher"})
	}

	// 尽力撤掉仍在场内的报单再退出。
	ctrl.CancelAll()
	logg.Info("trader stopped")
}

// engineConfig 把文件配置映射为引擎参数。
func engineConfig(cfg config.AppConfig) engine.Config {
	ins := cfg.Instrument
	out := engine.Config{
		Instrument:    parseInstrument(ins.Symbol),
		LotSize:       ins.LotSize,
		PositionLimit: ins.PositionLimit,
		Bounds:        market.NewBounds(ins.TickSize, ins.MinPrice, ins.MaxPrice),
		LadderDepth:   cfg.Strategy.LadderDepth,
		TrendAdjust:   cfg.Strategy.TrendAdjust,
		QuoteCap:      cfg.Strategy.QuoteCap,
	}
	switch cfg.Strategy.Lifespan {
	case "good_for_day":
		out.Lifespan = order.GoodForDay
	default:
		out.Lifespan = order.FillAndKill
	}
	switch cfg.Strategy.Sizing {
	case "depth_aware":
		out.Sizing = engine.SizingDepthAware
	default:
		out.Sizing = engine.SizingFixedLot
	}
	switch cfg.Strategy.OnLimitBreach {
	case "clamp":
		out.OnLimitBreach = engine.BreachClampAndAccept
	default:
		out.OnLimitBreach = engine.BreachCancelAndUnwind
	}
	return out
}

func parseInstrument(symbol string) market.Instrument {
	if strings.EqualFold(symbol, "future") {
		return market.InstrumentFuture
	}
	return market.InstrumentETF
}

func handleSignals(cancel context.CancelFunc, logg *logger.Logger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigs
	logg.Info("signal received, shutting down: " + sig.String())
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	cancel()
}

// notifySystemd 上报就绪并按需维持看门狗心跳。
func notifySystemd(ctx context.Context, logg *logger.Logger) {
	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		logg.LogError(err, map[string]interface{}{"stage": "sd_notify"})
	}
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil || interval == 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
			}
		}
	}()
}
