/*
 * config.go, part of gocryst.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package config reads the TOML configuration of a batch of R factor calculations.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/pelletier/go-toml"
	cryst "github.com/rmera/gocryst"
	"github.com/rmera/gocryst/rstat"
)

//Config contains the settings for a batch of calculations. Each folder is searched
//for reflection files (.m83, possibly compressed), and each file found is a job.
//Settings not given in the file keep the values from Default.
type Config struct {
	Folders       []string `toml:"folders"`
	ObservedSigma float64  `toml:"observed_sigma"`
	Instability   float64  `toml:"instability"`
	Weights       string   `toml:"weights"` //derived, provided or none
	Plot          bool     `toml:"plot"`    //write a Fo vs Fc plot next to each job
	Workers       int      `toml:"workers"`
	Merge         bool     `toml:"merge"` //also report R factors after merging equivalents
	Shells        int      `toml:"shells"`
}

//Default returns the configuration used for the settings not given in the file.
func Default() Config {
	return Config{
		ObservedSigma: cryst.DefaultObservedSigma,
		Instability:   cryst.DefaultInstability,
		Weights:       "derived",
		Workers:       runtime.NumCPU(),
		Merge:         true,
	}
}

//New reads the TOML configuration file in path. The configuration is validated.
func New(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	c := Default()
	dec := toml.NewDecoder(f)
	err = dec.Decode(&c)
	if err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}

//Validate returns an error if the configuration can't be used.
func (c Config) Validate() error {
	if len(c.Folders) == 0 {
		return fmt.Errorf("no folders given")
	}
	if c.ObservedSigma < 0 {
		return fmt.Errorf("negative observed_sigma (%g)", c.ObservedSigma)
	}
	if c.Instability < 0 {
		return fmt.Errorf("negative instability (%g)", c.Instability)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1 (%d)", c.Workers)
	}
	if c.Shells < 0 {
		return fmt.Errorf("negative number of shells (%d)", c.Shells)
	}
	_, err := rstat.ParseWeightSource(c.Weights, c.Instability)
	return err
}

//Options returns the R factor options for the configuration.
func (c Config) Options() (*rstat.Options, error) {
	w, err := rstat.ParseWeightSource(c.Weights, c.Instability)
	if err != nil {
		return nil, err
	}
	return &rstat.Options{ObservedSigma: c.ObservedSigma, Weights: w}, nil
}

//MergeOptions returns the merging options for the configuration.
func (c Config) MergeOptions() *cryst.MergeOptions {
	return &cryst.MergeOptions{ObservedSigma: c.ObservedSigma, Instability: c.Instability}
}

//Jobs returns the reflection files found in the folders, sorted.
func (c Config) Jobs() ([]string, error) {
	var ret []string
	for _, d := range c.Folders {
		for _, pat := range []string{"*.m83", "*.m83.zst", "*.m83.gz"} {
			m, err := filepath.Glob(filepath.Join(d, pat))
			if err != nil {
				return nil, err
			}
			ret = append(ret, m...)
		}
	}
	sort.Strings(ret)
	return ret, nil
}
