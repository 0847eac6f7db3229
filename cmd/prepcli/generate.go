package main

import (
	"context"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/linzhe/interview-forge/internal/service/generator"
	"github.com/linzhe/interview-forge/internal/storage"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var savePrompt = promptui.Select{
	Label: "Save this session?",
	Items: []string{PromptYes, PromptNo},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate interview questions for a role",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runGenerate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("role", "r", "", "job role to generate questions for")
	generateCmd.Flags().StringP("level", "l", "", "experience level")
	generateCmd.Flags().StringSliceP("skills", "s", nil, "skills to emphasise")
	generateCmd.Flags().IntP("count", "n", 10, "number of questions")
	generateCmd.Flags().StringSlice("types", nil, "question categories, e.g. Technical,Behavioral")
	generateCmd.Flags().BoolP("auto-approve", "y", false, "save without asking for confirmation")

	viper.BindPFlag("auto-approve", generateCmd.Flags().Lookup("auto-approve"))
}

func runGenerate(cmd *cobra.Command) error {
	ctx := context.Background()

	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	role, _ := cmd.Flags().GetString("role")
	level, _ := cmd.Flags().GetString("level")
	skills, _ := cmd.Flags().GetStringSlice("skills")
	count, _ := cmd.Flags().GetInt("count")
	types, _ := cmd.Flags().GetStringSlice("types")

	mode := "local"
	if e.gen.RemoteEnabled() {
		mode = "remote"
	}
	e.logger.Info("generating questions",
		zap.String("role", role),
		zap.String("level", level),
		zap.Int("count", count),
		zap.String("mode", mode),
	)

	questions, err := e.gen.Generate(ctx, generator.Request{
		JobRole:         role,
		ExperienceLevel: level,
		Skills:          skills,
		NumQuestions:    count,
		QuestionTypes:   types,
	})
	if err != nil {
		return err
	}

	for i, q := range questions {
		fmt.Printf("%2d. %s\n", i+1, q)
	}

	if !viper.GetBool("auto-approve") {
		_, answer, err := savePrompt.Run()
		if err != nil || answer != PromptYes {
			e.logger.Info("session discarded")
			return nil
		}
	}

	session, err := e.store.Save(ctx, storage.SaveRequest{
		Questions:       questions,
		JobRole:         role,
		ExperienceLevel: level,
		Skills:          skills,
	})
	if err != nil {
		return err
	}

	e.logger.Info("session saved", zap.String("session_id", session.SessionID))
	return nil
}
