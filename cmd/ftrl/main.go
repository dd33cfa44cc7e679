// Command ftrl trains, evaluates and applies FTRL-Proximal models on CSV
// data. Hyperparameters can come from flags, a config file or FTRL_*
// environment variables, in ascending priority of config, env, flag.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/ftrl/core/frame"
	"github.com/ezoic/ftrl/core/model"
	"github.com/ezoic/ftrl/ftrl"
	"github.com/ezoic/ftrl/metrics"
	"github.com/ezoic/ftrl/pkg/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile, logLevel string

	root := &cobra.Command{
		Use:           "ftrl",
		Short:         "Online FTRL-Proximal classification on CSV data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
			log.Init(level)
			if cfgFile != "" {
				viper.SetConfigFile(cfgFile)
				if err := viper.ReadInConfig(); err != nil {
					return fmt.Errorf("failed to read config: %w", err)
				}
			}
			viper.SetEnvPrefix("FTRL")
			viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			viper.AutomaticEnv()
			return viper.BindPFlags(cmd.Flags())
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(newTrainCmd(), newPredictCmd(), newImportanceCmd())
	return root
}

func newTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a model on a CSV file and save it",
		RunE:  runTrain,
	}

	flags := cmd.Flags()
	flags.String("data", "", "training CSV file (required)")
	flags.String("target", "", "name of the target column (required)")
	flags.String("output", "model.ftrl", "path to write the trained model")
	flags.String("validate", "", "optional CSV file to score after training")

	p := ftrl.DefaultParams()
	flags.Float64("alpha", p.Alpha, "learning rate numerator")
	flags.Float64("beta", p.Beta, "learning rate smoothing term")
	flags.Float64("lambda1", p.Lambda1, "L1 regularization strength")
	flags.Float64("lambda2", p.Lambda2, "L2 regularization strength")
	flags.Uint64("nbins", p.NBins, "size of the hashed bin space")
	flags.Int("nepochs", p.NEpochs, "number of training passes")
	flags.Bool("interactions", p.Interactions, "enable second order feature interactions")
	flags.Bool("double-precision", p.DoublePrecision, "use float64 accumulators")
	flags.StringSlice("labels", nil, "class labels for multinomial training")

	_ = cmd.MarkFlagRequired("data")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func runTrain(cmd *cobra.Command, args []string) error {
	logger := log.GetLoggerWithName("cli").With(log.ComponentKey, "train")

	X, y, err := loadTrainingData(viper.GetString("data"), viper.GetString("target"))
	if err != nil {
		return err
	}

	params := ftrl.Params{
		Alpha:           viper.GetFloat64("alpha"),
		Beta:            viper.GetFloat64("beta"),
		Lambda1:         viper.GetFloat64("lambda1"),
		Lambda2:         viper.GetFloat64("lambda2"),
		NBins:           viper.GetUint64("nbins"),
		NEpochs:         viper.GetInt("nepochs"),
		Interactions:    viper.GetBool("interactions"),
		DoublePrecision: viper.GetBool("double-precision"),
	}
	opts := []ftrl.Option{ftrl.WithParams(params)}
	if labels := viper.GetStringSlice("labels"); len(labels) > 0 {
		opts = append(opts, ftrl.WithLabels(labels))
	}

	estimator, err := ftrl.New(opts...)
	if err != nil {
		return err
	}
	if err := estimator.Fit(X, y); err != nil {
		return err
	}

	if valPath := viper.GetString("validate"); valPath != "" {
		if err := scoreValidation(cmd, estimator, valPath, viper.GetString("target")); err != nil {
			return err
		}
	}

	output := viper.GetString("output")
	if err := model.SaveModel(estimator, output); err != nil {
		return err
	}
	logger.Info("Model saved",
		log.SamplesKey, X.NumRows(),
		log.FeaturesKey, X.NumCols(),
	)
	cmd.Printf("trained on %d rows, model written to %s\n", X.NumRows(), output)
	return nil
}

// scoreValidation reports log loss, accuracy and AUC on a held-out CSV.
// Only binary models are scored; multinomial validation prints nothing.
func scoreValidation(cmd *cobra.Command, estimator *ftrl.FTRL, path, target string) error {
	X, y, err := loadTrainingData(path, target)
	if err != nil {
		return err
	}
	if estimator.RegressionKind() != ftrl.RegBinary {
		return nil
	}

	preds, err := estimator.Predict(X)
	if err != nil {
		return err
	}
	probs, err := preds.FloatCol(0)
	if err != nil {
		return err
	}
	truth, err := y.FloatCol(0)
	if err != nil {
		return err
	}

	yTrue := mat.NewVecDense(len(truth), truth)
	yPred := mat.NewVecDense(len(probs), probs)

	loss, err := metrics.LogLoss(yTrue, yPred)
	if err != nil {
		return err
	}
	acc, err := metrics.Accuracy(yTrue, yPred)
	if err != nil {
		return err
	}
	cmd.Printf("validation: logloss=%.6f accuracy=%.4f", loss, acc)
	if auc, err := metrics.AUC(yTrue, yPred); err == nil {
		cmd.Printf(" auc=%.4f", auc)
	}
	cmd.Println()
	return nil
}

func newPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Apply a saved model to a CSV file",
		RunE:  runPredict,
	}
	cmd.Flags().String("model", "", "trained model file (required)")
	cmd.Flags().String("data", "", "CSV file to score (required)")
	cmd.Flags().String("output", "", "CSV file for predictions (default stdout)")
	_ = cmd.MarkFlagRequired("model")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func runPredict(cmd *cobra.Command, args []string) error {
	estimator, err := loadEstimator(viper.GetString("model"))
	if err != nil {
		return err
	}

	X, err := readCSVFile(viper.GetString("data"))
	if err != nil {
		return err
	}
	preds, err := estimator.Predict(X)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if path := viper.GetString("output"); path != "" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = file.Close() }()
		out = file
	}
	return frame.WriteCSV(out, preds)
}

func newImportanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "importance",
		Short: "Print feature importances of a saved model",
		RunE:  runImportance,
	}
	cmd.Flags().String("model", "", "trained model file (required)")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

func runImportance(cmd *cobra.Command, args []string) error {
	estimator, err := loadEstimator(viper.GetString("model"))
	if err != nil {
		return err
	}
	fi, err := estimator.FeatureImportances()
	if err != nil {
		return err
	}

	type entry struct {
		name  string
		value float64
	}
	entries := make([]entry, fi.NumRows())
	for i := range entries {
		entries[i] = entry{
			name:  fi.At(i, 0).String(),
			value: fi.At(i, 1).Float64(),
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].value > entries[j].value })

	for _, e := range entries {
		cmd.Printf("%-30s %.6f\n", e.name, e.value)
	}
	return nil
}

func loadEstimator(path string) (*ftrl.FTRL, error) {
	estimator, err := ftrl.New()
	if err != nil {
		return nil, err
	}
	if err := model.LoadModel(estimator, path); err != nil {
		return nil, err
	}
	return estimator, nil
}

func readCSVFile(path string) (*frame.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return frame.ReadCSV(file)
}

func loadTrainingData(path, target string) (*frame.Table, *frame.Table, error) {
	tbl, err := readCSVFile(path)
	if err != nil {
		return nil, nil, err
	}
	y, err := tbl.Select(target)
	if err != nil {
		return nil, nil, err
	}
	X, err := tbl.Drop(target)
	if err != nil {
		return nil, nil, err
	}
	return X, y, nil
}
