package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/replica-matcher/internal/people"
	"github.com/spigell/replica-matcher/internal/replica"
	"github.com/spigell/replica-matcher/internal/session"
	"github.com/spigell/replica-matcher/internal/trigger"
)

const (
	PromptShowPeople      = "Show people"
	PromptReportByCompany = "Report by companies"
	PromptMarkContacted   = "Mark people as contacted"
	PromptPeopleToFile    = "Dump people to file"
	PromptAskAgain        = "Ask another question"
	PromptExit            = "Exit"
	PromptBack            = "back"
)

var errExit = errors.New("exit requested")

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask a replica for recommendations and work with the people it suggests",
	Run: func(cmd *cobra.Command, _ []string) {
		ask(cmd)
	},
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringP("replica", "r", "", "replica to talk to (matchmaker, mentor or buddy). Asked interactively when unset.")
	askCmd.Flags().StringP("query", "q", "", "the first question. Asked interactively when unset.")
}

// ask is the interactive chat command.
func ask(cmd *cobra.Command) {
	ctx := context.Background()
	rt := setup("")

	rt.logger.Info("starting the replica-matcher", zap.String("version", version))

	responder, err := newResponder(ctx, rt.config.AI, rt.logger)
	if err != nil {
		rt.logger.Fatal("creating a responder", zap.Error(err))
	}

	persona, err := selectPersona(cmd, rt.config.Replica)
	if err != nil {
		rt.logger.Fatal("selecting a replica", zap.Error(err))
	}

	tmpl := persona.Template()
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", tmpl.Name, tmpl.Greeting)

	query, _ := cmd.Flags().GetString("query")
	for {
		if strings.TrimSpace(query) == "" {
			query, err = askQuery(tmpl)
			if err != nil {
				rt.logger.Fatal("exiting", zap.Error(err))
			}
		}

		history := []session.Message{{Role: session.RoleUser, Content: query, Created: time.Now()}}

		reply, err := responder.Reply(ctx, persona, query)
		if err != nil {
			rt.logger.Fatal("asking the replica", zap.Error(err), zap.String("replica", persona.String()))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\n%s:\n%s\n\n", tmpl.Name, trigger.Strip(reply.Text))

		history = append(history, session.Message{
			ID:      uuid.NewString(),
			Role:    session.RoleAssistant,
			Content: reply.Text,
			Replica: persona.String(),
			Created: time.Now(),
		})

		result, err := rt.tracker.ObserveLatest(ctx, history)
		if err != nil {
			rt.logger.Fatal("processing the reply", zap.Error(err))
		}

		ranked := &people.Ranked{Items: result.People}
		if ranked.Len() == 0 {
			rt.logger.Info("no people in the reply", zap.String("query", result.Query))
		} else {
			rt.logger.Info("current list of people",
				zap.Int("count", ranked.Len()),
				zap.String("category", string(result.Category)),
				zap.String("best_match", ranked.Best().Name),
			)
		}

		if err := actionLoop(rt, ranked); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			rt.logger.Fatal("exiting", zap.Error(err))
		}

		query = ""
	}
}

func selectPersona(cmd *cobra.Command, configured string) (replica.Persona, error) {
	name, _ := cmd.Flags().GetString("replica")
	if name == "" {
		name = configured
	}
	if name != "" {
		return replica.Parse(name)
	}

	items := make([]string, 0, len(replica.All()))
	for _, p := range replica.All() {
		tmpl := p.Template()
		items = append(items, fmt.Sprintf("%s - %s", tmpl.Name, tmpl.Purpose))
	}

	personaPrompt := promptui.Select{
		Label: "Choose a replica",
		Items: items,
	}

	idx, _, err := personaPrompt.Run()
	if err != nil {
		return 0, err
	}
	return replica.All()[idx], nil
}

func askQuery(tmpl replica.Template) (string, error) {
	label := "Your question"
	if len(tmpl.SuggestedQuestions) > 0 {
		label = fmt.Sprintf("Your question (e.g. %q)", tmpl.SuggestedQuestions[0])
	}

	queryPrompt := promptui.Prompt{
		Label: label,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("question cannot be empty")
			}
			return nil
		},
	}

	return queryPrompt.Run()
}

// actionLoop lets the user work with the ranked list until they ask again or exit.
func actionLoop(rt *runtime, ranked *people.Ranked) error {
	for {
		items := []string{PromptAskAgain, PromptExit}
		if ranked.Len() > 0 {
			items = []string{PromptShowPeople, PromptReportByCompany, PromptPeopleToFile}
			if rt.config.Filters.ContactedFile != "" {
				items = append(items, PromptMarkContacted)
			}
			items = append(items, PromptAskAgain, PromptExit)
		}

		actionPrompt := promptui.Select{
			Label: "What next?",
			Items: items,
		}

		_, action, err := actionPrompt.Run()
		if err != nil {
			return err
		}

		if action == PromptAskAgain {
			return nil
		}

		if err := handleAction(action, rt, ranked); err != nil {
			return err
		}
	}
}

func handleAction(action string, rt *runtime, ranked *people.Ranked) error {
	switch action {
	case PromptExit:
		rt.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptShowPeople:
		return showPeople(rt.logger, ranked)
	case PromptReportByCompany:
		pretty, _ := json.MarshalIndent(ranked.ReportByCompany(), "", "  ")
		rt.logger.Info(string(pretty), zap.Int("people count", ranked.Len()))
		return nil
	case PromptPeopleToFile:
		filename, err := ranked.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump people to file: %w", err)
		}
		rt.logger.Info("dumping people to file", zap.String("filename", filename))
		return nil
	case PromptMarkContacted:
		return markContacted(rt.logger, rt.config.Filters.ContactedFile, ranked)
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func showPeople(logger *zap.Logger, ranked *people.Ranked) error {
	for {
		items := make([]string, 0, ranked.Len()+1)
		for _, p := range ranked.Items {
			label := fmt.Sprintf("%5.1f%% %s / %s", p.MatchPercentage, p.Name, p.Role)
			if p.HasCompany() {
				label += " / " + p.Company
			}
			items = append(items, label)
		}

		peoplePrompt := promptui.Select{
			Label: "Choose a person and press ENTER",
			Items: append(items, PromptBack),
		}

		idx, selected, err := peoplePrompt.Run()
		if err != nil {
			return err
		}
		if selected == PromptBack {
			return nil
		}

		pretty, _ := json.MarshalIndent(ranked.Items[idx], "", "  ")
		logger.Info(string(pretty))
	}
}

func markContacted(logger *zap.Logger, path string, ranked *people.Ranked) error {
	contacted, err := people.GetContactedFromFile(path)
	if err != nil {
		return err
	}

	contacted.Append(ranked.ToContacted())

	if err := contacted.ToFile(path); err != nil {
		return err
	}

	logger.Info("appended to contacted file",
		zap.String("filename", path),
		zap.Int("contacted", len(contacted.Items)),
	)
	return nil
}
