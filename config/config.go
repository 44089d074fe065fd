package config

//Config is the layered solver configuration: defaults, then a config
//file, then environment/flag overrides, resolved through viper the way
//the teacher's go.mod already pulled in as part of its toolchain
//dependency set - promoted here to an actual, direct use.

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	MeshNumCellsX int     `mapstructure:"mesh_num_cells_x"`
	MeshNumCellsY int     `mapstructure:"mesh_num_cells_y"`
	MeshNumCellsZ int     `mapstructure:"mesh_num_cells_z"`
	MeshCellWidth float64 `mapstructure:"mesh_cell_width"`

	HasGravity bool `mapstructure:"has_gravity"`

	NumTimeSteps  int     `mapstructure:"num_time_steps"`
	TimeStepSize  float64 `mapstructure:"time_step_size"`
	OutputFile    string  `mapstructure:"output_file"`
	WriteFrequency int    `mapstructure:"write_frequency"`

	SamplingOrder int `mapstructure:"sampling_order"`

	GeometrySphereCenterX float64 `mapstructure:"geometry_sphere_center_x"`
	GeometrySphereCenterY float64 `mapstructure:"geometry_sphere_center_y"`
	GeometrySphereCenterZ float64 `mapstructure:"geometry_sphere_center_z"`
	GeometrySphereRadius  float64 `mapstructure:"geometry_sphere_radius"`
	GeometryMaterialId    int     `mapstructure:"geometry_material_id"`

	MaterialModel  string  `mapstructure:"material_model"`
	MaterialLambda float64 `mapstructure:"material_lambda"`
	MaterialMu     float64 `mapstructure:"material_mu"`

	BoundaryMinX string `mapstructure:"boundary_min_x"`
	BoundaryMaxX string `mapstructure:"boundary_max_x"`
	BoundaryMinY string `mapstructure:"boundary_min_y"`
	BoundaryMaxY string `mapstructure:"boundary_max_y"`
	BoundaryMinZ string `mapstructure:"boundary_min_z"`
	BoundaryMaxZ string `mapstructure:"boundary_max_z"`
}

//Load reads configuration from path (if non-empty), overlaying it on
//top of the package defaults, then binds MPM_-prefixed environment
//variables over whatever the file set.
func Load(path string) (*Config, error) {
	v := viper.New()
	applyDefaults(v)

	v.SetEnvPrefix("mpm")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %q: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

//Defaults returns the built-in default value for every recognized
//config key, keyed by its mapstructure/viper name. Shared by Load and
//the CLI's init-config command so the two never drift apart.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"mesh_num_cells_x": 10,
		"mesh_num_cells_y": 10,
		"mesh_num_cells_z": 10,
		"mesh_cell_width":  1.0,
		"has_gravity":      true,
		"num_time_steps":   100,
		"time_step_size":   0.001,
		"output_file":      "particles",
		"write_frequency":  10,
		"sampling_order":   2,

		"geometry_sphere_center_x": 0.5,
		"geometry_sphere_center_y": 0.5,
		"geometry_sphere_center_z": 0.9,
		"geometry_sphere_radius":   0.1,
		"geometry_material_id":    0,

		"material_model":  "linear-elastic",
		"material_lambda": 1000.0,
		"material_mu":     1000.0,

		"boundary_min_x": "reflecting",
		"boundary_max_x": "reflecting",
		"boundary_min_y": "reflecting",
		"boundary_max_y": "reflecting",
		"boundary_min_z": "reflecting",
		"boundary_max_z": "open",
	}
}

func applyDefaults(v *viper.Viper) {
	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}
}

//Validate rejects configurations that cannot drive a solve, mirroring
//the mpm package's own ErrInvalidConfig guards on the same fields.
func (c *Config) Validate() error {
	if c.MeshNumCellsX <= 0 || c.MeshNumCellsY <= 0 || c.MeshNumCellsZ <= 0 {
		return fmt.Errorf("config: mesh_num_cells_{x,y,z} must be positive")
	}
	if c.MeshCellWidth <= 0 {
		return fmt.Errorf("config: mesh_cell_width must be positive")
	}
	if c.NumTimeSteps < 0 {
		return fmt.Errorf("config: num_time_steps must not be negative")
	}
	if c.TimeStepSize <= 0 {
		return fmt.Errorf("config: time_step_size must be positive")
	}
	if c.WriteFrequency <= 0 {
		return fmt.Errorf("config: write_frequency must be positive")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("config: output_file must not be empty")
	}
	if c.SamplingOrder <= 0 {
		return fmt.Errorf("config: sampling_order must be positive")
	}
	if c.GeometrySphereRadius <= 0 {
		return fmt.Errorf("config: geometry_sphere_radius must be positive")
	}
	return nil
}

//BoundaryNames returns the six per-face boundary condition names in
//mesh face-index order (-x,+x,-y,+y,-z,+z).
func (c *Config) BoundaryNames() [6]string {
	return [6]string{
		c.BoundaryMinX, c.BoundaryMaxX,
		c.BoundaryMinY, c.BoundaryMaxY,
		c.BoundaryMinZ, c.BoundaryMaxZ,
	}
}
