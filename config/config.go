// Package config holds SolverConfig, the param_solver / param_solver_ice
// surface of spec.md §6: every knob the CLI's param_solver and
// param_solver_ice commands can get or set, plus the handful of
// deployment settings (data paths, debug mode) that don't belong to
// either engine.
//
// Grounded on the teacher's config.Config.Load, generalized from
// namsral/flag (flags only) to spf13/viper so the same struct can be
// populated from environment variables or a config file without separate
// binding passes (Load reads no other command-line flags) — viper is already in the teacher's
// go.mod but unused by config.Config itself, so this is the pack's
// dependency surface put to the use its own authors stopped short of.
package config

import (
	"fmt"
	"strconv"

	"github.com/spf13/viper"

	"github.com/domino14/hexsolve/ice"
	"github.com/domino14/hexsolve/ordering"
)

// SolverConfig is the root configuration object. A hexsolve consumer
// constructs one, calls Load to bind env/file, and then reads
// BoardWidth/BoardHeight/etc. to build its geometry.Board and
// hexboard.Config. It is never a package-level global: every
// constructor in this module takes what it needs by value or pointer,
// per SPEC_FULL.md §9's "no global mutable state" note.
type SolverConfig struct {
	v *viper.Viper

	BoardWidth  int
	BoardHeight int

	DataPath string // directory holding pattern files, position DBs
	Debug    bool   // lowers the log level to debug (see logutil.New)

	Solver SolverParams
	ICE    ICEParams
}

// SolverParams is exactly the param_solver surface.
type SolverParams struct {
	MaxDepth          int
	UseDecompositions bool
	ShrinkProofs      bool
	OrderFromCenter   bool
	OrderWithResist   bool
	OrderWithMustplay bool
	TTFractionOfMem   float64
}

// ICEParams is exactly the param_solver_ice surface.
type ICEParams struct {
	FindPermanentlyInferior   bool
	FindAllPatternKillers     bool
	BackupOpponentDead        bool
	IterativeDeadRegions      bool
	FindThreeSidedDeadRegions bool
}

// DefaultConfig returns a SolverConfig seeded with ice.DefaultConfig for
// the ICE surface and with every move-ordering flag, proof shrinking and
// decompositions turned on, so a consumer that never calls Load still
// gets a sensible, fully-specified configuration.
func DefaultConfig() *SolverConfig {
	icDefault := ice.DefaultConfig()
	return &SolverConfig{
		v:           viper.New(),
		BoardWidth:  11,
		BoardHeight: 11,
		DataPath:    "./data",
		Debug:       false,
		Solver: SolverParams{
			MaxDepth:          0,
			UseDecompositions: true,
			ShrinkProofs:       true,
			OrderFromCenter:   true,
			OrderWithResist:   true,
			OrderWithMustplay: true,
			TTFractionOfMem:   0.25,
		},
		ICE: ICEParams{
			FindPermanentlyInferior:   icDefault.FindPermanentlyInferior,
			FindAllPatternKillers:     icDefault.FindAllPatternKillers,
			BackupOpponentDead:        icDefault.BackupOpponentDead,
			IterativeDeadRegions:      icDefault.IterativeDeadRegions,
			FindThreeSidedDeadRegions: icDefault.FindThreeSidedDeadRegions,
		},
	}
}

// Load binds HEXSOLVE_-prefixed environment variables and (optionally) a
// config file named by a "-config-file <path>" pair in args into c,
// mirroring the teacher's Config.Load but through viper's layered
// precedence (env > file > default, c's current fields being the
// defaults) instead of namsral/flag's single pass. No other argument in
// args is read.
func (c *SolverConfig) Load(args []string) error {
	c.v = viper.New()
	c.v.SetEnvPrefix("HEXSOLVE")
	c.v.AutomaticEnv()

	c.v.SetDefault("board-width", c.BoardWidth)
	c.v.SetDefault("board-height", c.BoardHeight)
	c.v.SetDefault("data-path", c.DataPath)
	c.v.SetDefault("debug", c.Debug)
	c.v.SetDefault("solver.max-depth", c.Solver.MaxDepth)
	c.v.SetDefault("solver.use-decompositions", c.Solver.UseDecompositions)
	c.v.SetDefault("solver.shrink-proofs", c.Solver.ShrinkProofs)
	c.v.SetDefault("solver.order-from-center", c.Solver.OrderFromCenter)
	c.v.SetDefault("solver.order-with-resist", c.Solver.OrderWithResist)
	c.v.SetDefault("solver.order-with-mustplay", c.Solver.OrderWithMustplay)
	c.v.SetDefault("solver.tt-fraction-of-mem", c.Solver.TTFractionOfMem)
	c.v.SetDefault("ice.find-permanently-inferior", c.ICE.FindPermanentlyInferior)
	c.v.SetDefault("ice.find-all-pattern-killers", c.ICE.FindAllPatternKillers)
	c.v.SetDefault("ice.backup-opponent-dead", c.ICE.BackupOpponentDead)
	c.v.SetDefault("ice.iterative-dead-regions", c.ICE.IterativeDeadRegions)
	c.v.SetDefault("ice.find-three-sided-dead-regions", c.ICE.FindThreeSidedDeadRegions)

	var configFile string
	for i, a := range args {
		if a == "-config-file" && i+1 < len(args) {
			configFile = args[i+1]
		}
	}
	if configFile != "" {
		c.v.SetConfigFile(configFile)
		if err := c.v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: reading %s: %w", configFile, err)
		}
	}

	c.BoardWidth = c.v.GetInt("board-width")
	c.BoardHeight = c.v.GetInt("board-height")
	c.DataPath = c.v.GetString("data-path")
	c.Debug = c.v.GetBool("debug")
	c.Solver = SolverParams{
		MaxDepth:          c.v.GetInt("solver.max-depth"),
		UseDecompositions: c.v.GetBool("solver.use-decompositions"),
		ShrinkProofs:       c.v.GetBool("solver.shrink-proofs"),
		OrderFromCenter:   c.v.GetBool("solver.order-from-center"),
		OrderWithResist:   c.v.GetBool("solver.order-with-resist"),
		OrderWithMustplay: c.v.GetBool("solver.order-with-mustplay"),
		TTFractionOfMem:   c.v.GetFloat64("solver.tt-fraction-of-mem"),
	}
	c.ICE = ICEParams{
		FindPermanentlyInferior:   c.v.GetBool("ice.find-permanently-inferior"),
		FindAllPatternKillers:     c.v.GetBool("ice.find-all-pattern-killers"),
		BackupOpponentDead:        c.v.GetBool("ice.backup-opponent-dead"),
		IterativeDeadRegions:      c.v.GetBool("ice.iterative-dead-regions"),
		FindThreeSidedDeadRegions: c.v.GetBool("ice.find-three-sided-dead-regions"),
	}
	return nil
}

// IceConfig projects ICEParams into the ice package's own Config type.
func (c *SolverConfig) IceConfig() ice.Config {
	return ice.Config{
		FindPermanentlyInferior:   c.ICE.FindPermanentlyInferior,
		FindAllPatternKillers:     c.ICE.FindAllPatternKillers,
		BackupOpponentDead:        c.ICE.BackupOpponentDead,
		IterativeDeadRegions:      c.ICE.IterativeDeadRegions,
		FindThreeSidedDeadRegions: c.ICE.FindThreeSidedDeadRegions,
	}
}

// OrderingFlags projects SolverParams into the ordering package's flags.
func (c *SolverConfig) OrderingFlags() ordering.Flags {
	var f ordering.Flags
	if c.Solver.OrderFromCenter {
		f |= ordering.OrderFromCenter
	}
	if c.Solver.OrderWithResist {
		f |= ordering.OrderWithResist
	}
	if c.Solver.OrderWithMustplay {
		f |= ordering.OrderWithMustplay
	}
	return f
}

// ParamSolver implements the `param_solver` CLI command: with no value,
// it reports the current setting; with a value, it sets it and reports
// nothing changed that the caller didn't ask for.
func (c *SolverConfig) ParamSolver(name, value string) (string, error) {
	switch name {
	case "max_depth":
		return setIntField(&c.Solver.MaxDepth, value)
	case "use_decompositions":
		return setBoolField(&c.Solver.UseDecompositions, value)
	case "shrink_proofs":
		return setBoolField(&c.Solver.ShrinkProofs, value)
	case "order_from_center":
		return setBoolField(&c.Solver.OrderFromCenter, value)
	case "order_with_resist":
		return setBoolField(&c.Solver.OrderWithResist, value)
	case "order_with_mustplay":
		return setBoolField(&c.Solver.OrderWithMustplay, value)
	case "tt_fraction_of_mem":
		return setFloatField(&c.Solver.TTFractionOfMem, value)
	default:
		return "", fmt.Errorf("config: unknown param_solver key %q", name)
	}
}

// ParamSolverIce implements the `param_solver_ice` CLI command.
func (c *SolverConfig) ParamSolverIce(name, value string) (string, error) {
	switch name {
	case "find_permanently_inferior":
		return setBoolField(&c.ICE.FindPermanentlyInferior, value)
	case "find_all_pattern_killers":
		return setBoolField(&c.ICE.FindAllPatternKillers, value)
	case "backup_opponent_dead":
		return setBoolField(&c.ICE.BackupOpponentDead, value)
	case "iterative_dead_regions":
		return setBoolField(&c.ICE.IterativeDeadRegions, value)
	case "find_three_sided_dead_regions":
		return setBoolField(&c.ICE.FindThreeSidedDeadRegions, value)
	default:
		return "", fmt.Errorf("config: unknown param_solver_ice key %q", name)
	}
}

func setBoolField(dst *bool, value string) (string, error) {
	if value == "" {
		return strconv.FormatBool(*dst), nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return "", fmt.Errorf("config: %q is not a bool: %w", value, err)
	}
	*dst = b
	return strconv.FormatBool(*dst), nil
}

func setIntField(dst *int, value string) (string, error) {
	if value == "" {
		return strconv.Itoa(*dst), nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return "", fmt.Errorf("config: %q is not an int: %w", value, err)
	}
	*dst = n
	return strconv.Itoa(*dst), nil
}

func setFloatField(dst *float64, value string) (string, error) {
	if value == "" {
		return strconv.FormatFloat(*dst, 'g', -1, 64), nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return "", fmt.Errorf("config: %q is not a float: %w", value, err)
	}
	*dst = f
	return strconv.FormatFloat(*dst, 'g', -1, 64), nil
}
