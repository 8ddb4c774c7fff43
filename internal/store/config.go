package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Mode           string   `yaml:"mode"`
	Strategy       string   `yaml:"strategy"`
	PollSeconds    int      `yaml:"poll_seconds"`
	Exchange       string   `yaml:"exchange"`
	InitialCapital float64  `yaml:"initial_capital"`
	Universe       []string `yaml:"universe"`

	Indicators struct {
		SMAShortPeriod    int     `yaml:"sma_short_period"`
		SMALongPeriod     int     `yaml:"sma_long_period"`
		MomentumLookback  int     `yaml:"momentum_lookback"`
		MomentumThreshold float64 `yaml:"momentum_threshold"`
		RSIPeriod         int     `yaml:"rsi_period"`
		RSIOversold       float64 `yaml:"rsi_oversold"`
		RSIOverbought     float64 `yaml:"rsi_overbought"`
		MACDShortSpan     int     `yaml:"macd_short_span"`
		MACDLongSpan      int     `yaml:"macd_long_span"`
		MACDSignalSpan    int     `yaml:"macd_signal_span"`
	} `yaml:"indicators"`

	Threshold struct {
		Base    float64 `yaml:"base"`
		Dynamic bool    `yaml:"dynamic"`
	} `yaml:"threshold"`

	VWAP struct {
		Window                 int     `yaml:"window"`
		DynamicThreshold       bool    `yaml:"dynamic_threshold"`
		VolumeThreshold        float64 `yaml:"volume_threshold"`
		MeanReversionThreshold float64 `yaml:"mean_reversion_threshold"`
	} `yaml:"vwap"`

	Risk struct {
		StopLossPct     float64 `yaml:"stop_loss_pct"`
		TakeProfitPct   float64 `yaml:"take_profit_pct"`
		TrailingStopPct float64 `yaml:"trailing_stop_pct"`
		MaxPositionSize float64 `yaml:"max_position_size"`
	} `yaml:"risk"`

	Sizing struct {
		MaxPositionFraction float64 `yaml:"max_position_fraction"`
		MinTradeAmount      float64 `yaml:"min_trade_amount"`
		MaxTradeAmount      float64 `yaml:"max_trade_amount"`
	} `yaml:"sizing"`

	Sentiment struct {
		Enabled       bool    `yaml:"enabled"`
		MaxPosts      int     `yaml:"max_posts"`
		MinSamples    int     `yaml:"min_samples"`
		BuyThreshold  float64 `yaml:"buy_threshold"`
		SellThreshold float64 `yaml:"sell_threshold"`
		CacheMinutes  int     `yaml:"cache_minutes"`
	} `yaml:"sentiment"`

	Session struct {
		OpenUTC  string `yaml:"open_utc"`
		CloseUTC string `yaml:"close_utc"`
	} `yaml:"session"`
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if c.Strategy != "SMA_CROSSOVER" && c.Strategy != "VWAP_REVERSION" {
		return fmt.Errorf("invalid strategy '%s': must be 'SMA_CROSSOVER' or 'VWAP_REVERSION'", c.Strategy)
	}
	if len(c.Universe) == 0 {
		return errors.New("universe cannot be empty")
	}
	if c.InitialCapital <= 0 {
		return fmt.Errorf("initial_capital must be positive, got %.2f", c.InitialCapital)
	}
	if c.Indicators.SMAShortPeriod >= c.Indicators.SMALongPeriod {
		return fmt.Errorf("indicators.sma_short_period (%d) must be less than sma_long_period (%d)",
			c.Indicators.SMAShortPeriod, c.Indicators.SMALongPeriod)
	}
	if c.Indicators.MomentumLookback <= 0 {
		return errors.New("indicators.momentum_lookback must be positive")
	}
	if c.Sizing.MinTradeAmount > c.Sizing.MaxTradeAmount {
		return fmt.Errorf("sizing.min_trade_amount (%.2f) exceeds max_trade_amount (%.2f)",
			c.Sizing.MinTradeAmount, c.Sizing.MaxTradeAmount)
	}
	if c.Sizing.MaxPositionFraction <= 0 || c.Sizing.MaxPositionFraction > 1 {
		return fmt.Errorf("sizing.max_position_fraction must be in (0, 1], got %.2f", c.Sizing.MaxPositionFraction)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func applyDefaults(c *Config) {
	if c.PollSeconds == 0 {
		c.PollSeconds = 15
	}
	if c.Strategy == "" {
		c.Strategy = "SMA_CROSSOVER"
	}
	if c.Indicators.SMAShortPeriod == 0 {
		c.Indicators.SMAShortPeriod = 20
	}
	if c.Indicators.SMALongPeriod == 0 {
		c.Indicators.SMALongPeriod = 50
	}
	if c.Indicators.MomentumLookback == 0 {
		c.Indicators.MomentumLookback = 10
	}
	if c.Indicators.RSIPeriod == 0 {
		c.Indicators.RSIPeriod = 14
	}
	if c.Indicators.RSIOversold == 0 {
		c.Indicators.RSIOversold = 30
	}
	if c.Indicators.RSIOverbought == 0 {
		c.Indicators.RSIOverbought = 70
	}
	if c.Indicators.MACDShortSpan == 0 {
		c.Indicators.MACDShortSpan = 12
	}
	if c.Indicators.MACDLongSpan == 0 {
		c.Indicators.MACDLongSpan = 26
	}
	if c.Indicators.MACDSignalSpan == 0 {
		c.Indicators.MACDSignalSpan = 9
	}
	if c.VWAP.Window == 0 {
		c.VWAP.Window = 20
	}
	if c.VWAP.VolumeThreshold == 0 {
		c.VWAP.VolumeThreshold = 1.5
	}
	if c.VWAP.MeanReversionThreshold == 0 {
		c.VWAP.MeanReversionThreshold = 0.05
	}
	if c.Risk.StopLossPct == 0 {
		c.Risk.StopLossPct = 0.05
	}
	if c.Risk.TakeProfitPct == 0 {
		c.Risk.TakeProfitPct = 0.10
	}
	if c.Risk.TrailingStopPct == 0 {
		c.Risk.TrailingStopPct = 0.03
	}
	if c.Risk.MaxPositionSize == 0 {
		c.Risk.MaxPositionSize = 10000
	}
	if c.Sizing.MaxPositionFraction == 0 {
		c.Sizing.MaxPositionFraction = 0.2
	}
	if c.Sizing.MinTradeAmount == 0 {
		c.Sizing.MinTradeAmount = 100
	}
	if c.Sizing.MaxTradeAmount == 0 {
		c.Sizing.MaxTradeAmount = 5000
	}
	if c.Sentiment.MaxPosts == 0 {
		c.Sentiment.MaxPosts = 50
	}
	if c.Sentiment.MinSamples == 0 {
		c.Sentiment.MinSamples = 5
	}
	if c.Sentiment.BuyThreshold == 0 {
		c.Sentiment.BuyThreshold = 0.15
	}
	if c.Sentiment.SellThreshold == 0 {
		c.Sentiment.SellThreshold = -0.15
	}
	if c.Sentiment.CacheMinutes == 0 {
		c.Sentiment.CacheMinutes = 60
	}
}
