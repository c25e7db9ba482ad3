package main

import (
	"encoding/json"
	"fmt"
	"os"

	"insidemotion-go/internal/analysis"
	"insidemotion-go/pkg/models"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <keypoints.json>",
		Short: "Анализ компенсаторных паттернов приседания по файлу ключевых точек",
		Long: `Analyze читает ключевые точки позы из JSON файла и печатает клинический
отчет о компенсаторных паттернах приседания.

Файл может содержать либо полный ответ сервиса позы, либо голый массив
кадров с ключевыми точками.`,
		Args:         cobra.ExactArgs(1),
		RunE:         runAnalyze,
		SilenceUsage: true,
	}

	cmd.Flags().Float64("visibility-threshold", analysis.DefaultVisibilityThreshold, "Минимальная видимость сустава для учета кадра")
	cmd.Flags().Float64("hip-shift-threshold", analysis.DefaultHipShiftThreshold, "Порог средней метрики для уровня problem")
	cmd.Flags().Float64("knee-asymmetry-threshold", analysis.DefaultKneeAsymmetryThreshold, "Порог средней метрики для уровня attention")
	cmd.Flags().Int("neutral-window", analysis.DefaultNeutralWindowSize, "Размер окна поиска нейтрального кадра")
	cmd.Flags().Float64("symmetry-epsilon", analysis.DefaultSymmetryEpsilonDeg, "Допуск симметрии углов коленей в градусах")
	cmd.Flags().Bool("timeline", false, "Включить динамику метрик по кадрам в вывод")
	cmd.Flags().Bool("verbose", false, "Подробное логирование в stderr")
	return cmd
}

// analyzeOutput форма вывода команды analyze
type analyzeOutput struct {
	Report   *analysis.AnalysisReport  `json:"report"`
	Timeline []analysis.SampledMetrics `json:"timeline,omitempty"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	opts, err := optionsFromFlags(cmd)
	if err != nil {
		return err
	}
	withTimeline, err := cmd.Flags().GetBool("timeline")
	if err != nil {
		return err
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}

	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	frames, err := loadFrames(args[0])
	if err != nil {
		return err
	}

	engine := analysis.NewEngine(opts, logger)
	report, timeline, err := engine.AnalyzeSequence(cmd.Context(), frames)
	if err != nil {
		return err
	}

	out := analyzeOutput{Report: report}
	if withTimeline {
		out.Timeline = timeline
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// optionsFromFlags собирает параметры движка анализа из флагов команды
func optionsFromFlags(cmd *cobra.Command) (analysis.Options, error) {
	visibility, err := cmd.Flags().GetFloat64("visibility-threshold")
	if err != nil {
		return analysis.Options{}, err
	}
	hipShift, err := cmd.Flags().GetFloat64("hip-shift-threshold")
	if err != nil {
		return analysis.Options{}, err
	}
	kneeAsymmetry, err := cmd.Flags().GetFloat64("knee-asymmetry-threshold")
	if err != nil {
		return analysis.Options{}, err
	}
	neutralWindow, err := cmd.Flags().GetInt("neutral-window")
	if err != nil {
		return analysis.Options{}, err
	}
	symmetryEpsilon, err := cmd.Flags().GetFloat64("symmetry-epsilon")
	if err != nil {
		return analysis.Options{}, err
	}

	return analysis.Options{
		VisibilityThreshold:    visibility,
		HipShiftThreshold:      hipShift,
		KneeAsymmetryThreshold: kneeAsymmetry,
		NeutralWindowSize:      neutralWindow,
		SymmetryEpsilonDeg:     symmetryEpsilon,
	}, nil
}

// loadFrames читает кадры из JSON файла: либо полный ответ сервиса позы,
// либо голый массив кадров
func loadFrames(path string) ([]models.Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var extraction models.PoseExtraction
	if err := json.Unmarshal(data, &extraction); err == nil && len(extraction.KeypointsData) > 0 {
		return extraction.KeypointsData, nil
	}

	var frames []models.Frame
	if err := json.Unmarshal(data, &frames); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return frames, nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
