package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/linzhe/interview-forge/internal/bank"
	"github.com/linzhe/interview-forge/internal/config"
	"github.com/linzhe/interview-forge/internal/logger"
	"github.com/linzhe/interview-forge/internal/service/generator"
	"github.com/linzhe/interview-forge/internal/storage"
)

const app = "prepcli"

var rootCmd = &cobra.Command{
	Use:   app,
	Short: "prepcli generates and browses interview question sessions from the terminal",
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("store", "", "path to the question storage file")
	rootCmd.PersistentFlags().String("bank-file", "", "YAML question bank file overriding the built-in bank")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("store", rootCmd.PersistentFlags().Lookup("store"))
	viper.BindPFlag("bank-file", rootCmd.PersistentFlags().Lookup("bank-file"))

	viper.BindEnv("store", "QUESTION_STORE_PATH")
	viper.BindEnv("bank-file", "QUESTION_BANK_FILE")
}

// env holds everything a subcommand needs.
type env struct {
	logger *zap.Logger
	cfg    *config.Config
	gen    *generator.Service
	store  *storage.Engine
}

func setup(ctx context.Context) (*env, error) {
	zl, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if path := viper.GetString("store"); path != "" {
		cfg.Storage.Path = path
	}
	if file := viper.GetString("bank-file"); file != "" {
		cfg.Bank.File = file
	}

	questionBank, err := loadBank(cfg.Bank)
	if err != nil {
		return nil, err
	}

	gen := generator.NewService(ctx, questionBank, cfg.AI, generator.Config{
		Cooldown: cfg.Generator.Cooldown,
	})

	store, err := storage.NewEngine(cfg.Storage)
	if err != nil {
		return nil, err
	}

	return &env{logger: zl, cfg: cfg, gen: gen, store: store}, nil
}

func loadBank(cfg config.BankConfig) (*bank.Bank, error) {
	if cfg.File == "" {
		return bank.New(bank.Seed()), nil
	}
	return bank.LoadFile(cfg.File)
}
