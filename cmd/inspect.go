package cmd

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mj1618/arena-access/internal/model"
	"github.com/mj1618/arena-access/internal/output"
	"github.com/mj1618/arena-access/internal/panel"
	"github.com/mj1618/arena-access/internal/platform/replay"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <scenario.yaml> [scene]",
	Short: "Show a scenario scene as the navigators see it",
	Long: `Flatten one scene of a scenario into paths, roles and text, and list the
overlay panels the detector would track. Without a scene name, lists the
scenario's scenes.

Examples:
  arena-access inspect login.yaml
  arena-access inspect login.yaml home --active-only`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("active-only", false, "Skip inactive branches")
}

// InspectResult is one flattened scene.
type InspectResult struct {
	Scene   string               `yaml:"scene"             json:"scene"`
	Name    string               `yaml:"name"              json:"name"`
	Objects []model.FlatObject   `yaml:"objects"           json:"objects"`
	Panels  []panel.TrackedPanel `yaml:"panels,omitempty"  json:"panels,omitempty"`
	Topmost string               `yaml:"topmost,omitempty" json:"topmost,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := replay.Load(args[0])
	if err != nil {
		return err
	}
	if len(args) == 1 {
		return output.Fprint(cmd.OutOrStdout(), slices.Sorted(maps.Keys(sc.Scenes)))
	}

	s, err := sc.Decode(args[1])
	if err != nil {
		return err
	}
	activeOnly, _ := cmd.Flags().GetBool("active-only")

	opts := panel.OptionsFrom(cfg.Panels)
	opts.CheckInterval = 1
	det := panel.New(opts, nil)
	change := det.CheckForChanges(s)

	res := InspectResult{
		Scene:   args[1],
		Name:    s.Name,
		Objects: model.FlattenScene(s, activeOnly),
		Panels:  det.Tracked(),
	}
	if change.Topmost != nil {
		res.Topmost = fmt.Sprintf("%s (%d)", change.Topmost.Name, change.Topmost.ID)
	}
	return output.Fprint(cmd.OutOrStdout(), res)
}
