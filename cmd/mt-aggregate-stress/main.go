package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/grafana/metricagg/logger"
	"github.com/grafana/metricagg/stats"
	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "mt-aggregate-stress",
	Short: "hammers an aggregate from many producers and verifies no observation is lost across windows",
	Long: `mt-aggregate-stress runs concurrent producers that update a single aggregate while a flusher
reads and resets it on an interval. when all producers are done, the windows are summed up and
compared with what was produced: count, sum, min and max must match exactly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Setup(viper.GetString("log-level")); err != nil {
			return err
		}
		cfg, err := configFromViper()
		if err != nil {
			return err
		}
		res, err := run(context.Background(), cfg)
		if err != nil {
			return err
		}
		fmt.Println(res)
		if !res.OK() {
			return fmt.Errorf("verification failed")
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.mt-aggregate-stress.yaml)")
	flags.Int("producers", 8, "number of concurrent producers")
	flags.Int("updates", 1000000, "number of updates per producer")
	flags.Int32("value", 1, "value every producer observes, unless --random is set")
	flags.Bool("random", false, "observe random values in [-1000, 1000) instead of --value")
	flags.Float64("rate", 0, "max updates per second per producer. 0 means unlimited")
	flags.String("mode", "exact", "aggregator implementation: exact|packed")
	flags.Duration("flush-interval", 100*time.Millisecond, "interval at which the aggregate is read and reset")
	flags.String("graphite-addr", "", "if set, also send the windows to this graphite address")
	flags.String("log-level", "info", "log level. panic|fatal|error|warning|info|debug")

	if err := viper.BindPFlags(flags); err != nil {
		panic(err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".mt-aggregate-stress")
	}

	viper.SetEnvPrefix("MA_STRESS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Infof("Using config file: %s", viper.ConfigFileUsed())
	}
}

func configFromViper() (Config, error) {
	mode, err := stats.ParseMode(viper.GetString("mode"))
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Producers:     viper.GetInt("producers"),
		Updates:       viper.GetInt("updates"),
		Value:         viper.GetInt32("value"),
		Random:        viper.GetBool("random"),
		Rate:          viper.GetFloat64("rate"),
		Mode:          mode,
		FlushInterval: viper.GetDuration("flush-interval"),
		GraphiteAddr:  viper.GetString("graphite-addr"),
	}
	return cfg, cfg.Validate()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
