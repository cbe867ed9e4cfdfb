// Copyright (C) 2019 The fixgold Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package fixgold defines the core types used by the verify, bless, and audit logic.
package fixgold

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	std_viper "github.com/spf13/viper"

	cage_viper "github.com/codeactual/fixgold/internal/cage/config/viper"
	cage_file "github.com/codeactual/fixgold/internal/cage/os/file"
	cage_filepath "github.com/codeactual/fixgold/internal/cage/path/filepath"
	cage_strings "github.com/codeactual/fixgold/internal/cage/strings"
	cage_structs "github.com/codeactual/fixgold/internal/cage/structs"
	cage_template "github.com/codeactual/fixgold/internal/cage/text/template"
)

const (
	// InputPlaceholder marks the position in Fixer.Cmd argv where the input file path
	// is substituted. If absent, the input is piped to the fixer's stdin.
	InputPlaceholder = "{}"

	// DefaultInputSuffix selects fixture input files when Op.Ext.Input is empty.
	DefaultInputSuffix = ".go"

	// DefaultGoldenSuffix selects expected-output files when Op.Ext.Golden is empty.
	DefaultGoldenSuffix = ".fixed.go"

	// DefaultArchiveSuffix selects txtar fixture files when Op.Ext.Archive is empty.
	DefaultArchiveSuffix = ".txt"

	newFileMode = 0644
)

// FilePathQuery defines file selection criteria.
type FilePathQuery struct {
	// Include holds github.com/bmatcuk/doublestar glob patterns which validate a candidate path.
	//
	// If any matches, the candidate path is accepted.
	Include []string

	// Exclude holds github.com/bmatcuk/doublestar glob patterns which invalidate a candidate path.
	//
	// If any matches, the candidate path is rejected.
	Exclude []string
}

func (q FilePathQuery) Copy() (cpy FilePathQuery) {
	cpy.Include = append(cpy.Include, q.Include...)
	cpy.Exclude = append(cpy.Exclude, q.Exclude...)
	return cpy
}

// ResolveTo updates all patterns to absolute path form.
func (q *FilePathQuery) ResolveTo(basePath string) {
	for p := range q.Include {
		q.Include[p] = filepath.Join(basePath, q.Include[p])
	}
	for p := range q.Exclude {
		q.Exclude[p] = filepath.Join(basePath, q.Exclude[p])
	}
}

func (q FilePathQuery) Validate() (errs []error) {
	for n, p := range q.Include {
		if p == "" {
			errs = append(errs, errors.Errorf("Include[%d] is empty", n))
		}
	}
	for n, p := range q.Exclude {
		if p == "" {
			errs = append(errs, errors.Errorf("Exclude[%d] is empty", n))
		}
	}
	return errs
}

// Fixer describes the external auto-fix tool whose output is verified against
// the golden files.
type Fixer struct {
	// Cmd is the argv of the tool. The first element is the executable.
	//
	// An InputPlaceholder element is replaced by the path of a temp file holding the
	// (directive-stripped) fixture input. If no element matches, the input is written
	// to the tool's stdin instead. The fixed source is always read from the tool's stdout.
	Cmd []string

	// VersionArg is the flag, e.g. "--version", which prints the tool's version.
	//
	// It is only used when MinVersion is also set.
	VersionArg string

	// MinVersion is the minimum semver tool version required by the fixture corpus.
	//
	// If set, the version is queried once per operation before any case runs.
	MinVersion string
}

func (f Fixer) Validate() (errs []error) {
	if len(f.Cmd) == 0 {
		errs = append(errs, errors.New("Fixer.Cmd is empty"))
	}
	for n, a := range f.Cmd {
		if strings.TrimSpace(a) == "" {
			errs = append(errs, errors.Errorf("Fixer.Cmd[%d] is empty", n))
		}
	}
	if f.MinVersion != "" && f.VersionArg == "" {
		errs = append(errs, errors.New("Fixer.MinVersion requires Fixer.VersionArg"))
	}
	return errs
}

// Ext defines the filename suffixes which classify fixture files.
type Ext struct {
	// Input is the suffix of fixer input files.
	Input string

	// Golden is the suffix of expected-output files.
	//
	// It must be distinct from, and is matched before, Input because the default
	// golden suffix ".fixed.go" also ends in the default input suffix ".go".
	Golden string

	// Archive is the suffix of txtar files which hold an input/golden pair in
	// their "input.go" and "fixed.go" sections.
	Archive string
}

func (e Ext) Validate() (errs []error) {
	if e.Input == e.Golden {
		errs = append(errs, errors.Errorf("Ext.Input and Ext.Golden are both [%s]", e.Input))
	}
	if !strings.HasSuffix(e.Golden, e.Input) {
		// Golden files would otherwise also be discovered as inputs of their own.
		errs = append(errs, errors.Errorf("Ext.Golden [%s] must end in Ext.Input [%s]", e.Golden, e.Input))
	}
	return errs
}

// Op configures one verify/bless/audit operation over a fixture corpus.
type Op struct {
	// Id is the Ops map key which selected this operation.
	Id string `mapstructure:"-"`

	// FixtureDir is the root of the corpus, relative to the config file's directory
	// unless absolute. Cases are grouped by rule in its sub-directories.
	FixtureDir string

	// Fixer describes the external auto-fix tool.
	Fixer Fixer

	// FixturePath narrows the corpus walk, e.g. to one rule directory.
	FixturePath FilePathQuery

	// Ext overrides the default fixture filename suffixes.
	Ext Ext

	// MaxParallel caps concurrent fixer processes. Zero selects runtime.NumCPU.
	MaxParallel int

	// DryRun disables golden writes during bless operations.
	DryRun bool `mapstructure:"-"`
}

func (o Op) Validate() (errs []error) {
	if o.FixtureDir == "" {
		errs = append(errs, errors.Errorf("Ops[%s]: FixtureDir is empty", o.Id))
	}
	for _, err := range o.Fixer.Validate() {
		errs = append(errs, errors.Wrapf(err, "Ops[%s]", o.Id))
	}
	for _, err := range o.Ext.Validate() {
		errs = append(errs, errors.Wrapf(err, "Ops[%s]", o.Id))
	}
	for _, err := range o.FixturePath.Validate() {
		errs = append(errs, errors.Wrapf(err, "Ops[%s]: FixturePath", o.Id))
	}
	if o.MaxParallel < 0 {
		errs = append(errs, errors.Errorf("Ops[%s]: MaxParallel [%d] is negative", o.Id, o.MaxParallel))
	}
	return errs
}

// Config is the unmarshaled structure of the YAML config file.
type Config struct {
	// Ops holds all operation definitions indexed by a user-defined ID.
	Ops map[string]Op

	// Template holds key/value pairs which can be used in some string fields via {{.key_name}} syntax.
	//
	// Key names must use lowercase due to viper(/mapstructure?) limitation. Convention: "some_key_name".
	// https://github.com/spf13/viper/issues/411
	// https://github.com/spf13/viper/pull/635
	Template map[string]string
}

// ReadFile populates Config fields with values from the named file.
//
// If the name is empty, it checks if fixgold.* files in the working directory are present
// (in order: *.yml, *.yaml, *.json, *.toml) and defaults to the first match. If none of the
// default names exist, an error is returned.
//
// It also validates the fields expected to be user-defined and computes others which are derived from the former.
func (c *Config) ReadFile(name string, _opIds ...string) (errs []error) {
	opIds := cage_strings.NewSet().AddSlice(_opIds)

	if name == "" {
		for _, ext := range []string{"yml", "yaml", "json", "toml"} {
			candidate := "fixgold." + ext
			if exists, _, err := cage_file.Exists(candidate); err != nil {
			} else if exists {
				name = candidate
				break
			}
		}
	}

	if name == "" {
		return []error{errors.New("no config file selected")}
	}

	file := std_viper.New()
	if err := cage_viper.ReadInConfig(file, name); err != nil {
		return []error{errors.Wrapf(err, "failed to locate config file [%s]", name)}
	}

	if err := file.UnmarshalExact(c); err != nil {
		return []error{errors.Wrapf(err, "failed to parse file [%s]", name)}
	}

	if len(c.Ops) == 0 {
		return []error{errors.Errorf("config file [%s] defined no operations (Ops map)", name)}
	}

	// expand program-defined template variables in the user-defined Template section

	configFilePath := filepath.Dir(name)
	if absErr := cage_filepath.Abs(&configFilePath); absErr != nil {
		return []error{errors.Wrapf(absErr, "failed to resolve absolute path of [%s]", configFilePath)}
	}

	progTemplateData := map[string]string{
		"_config_dir": configFilePath,
	}

	var tmplExpectKeys []string // select which template key/value pairs to expand in the Template section
	for k := range progTemplateData {
		tmplExpectKeys = append(tmplExpectKeys, k)
	}

	tmplDataBuilder := cage_template.NewStringMapBuilder()
	tmplDataBuilder.SetExpectedKey(tmplExpectKeys...).Merge(cage_structs.MergeModeCombine, progTemplateData)

	var mapSaveFuncs []func()
	tmplStrings := []*string{}

	for s := range c.Template {
		// use StringKeyPtr to work around lack of support for &c.Template[<key>] syntax
		valPtr, save, mapErr := cage_strings.StringKeyPtr(&c.Template, s)
		if mapErr != nil {
			errs = append(errs, errors.Wrapf(mapErr, "failed to update to Template[%s] value", s))
		}
		mapSaveFuncs = append(mapSaveFuncs, save)
		tmplStrings = append(tmplStrings, valPtr)
	}

	tmplErr := cage_template.ExpandFromStringMap(tmplDataBuilder.Map(), tmplStrings...)
	if tmplErr != nil {
		errs = append(errs, errors.Wrap(tmplErr, "failed to expand program-defined variables in Template config section"))
	}

	if len(errs) > 0 {
		return errs
	}

	for _, f := range mapSaveFuncs {
		f()
	}

	// - select which template key/value pairs to expand in the Ops section
	// - trim leading/trailing space from value strings
	// - expand environment variables in value strings

	var opTmplExpectKeys []string
	for k := range progTemplateData {
		opTmplExpectKeys = append(opTmplExpectKeys, k)
	}
	for k := range c.Template {
		opTmplExpectKeys = append(opTmplExpectKeys, k)
		c.Template[k] = os.ExpandEnv(c.Template[k])
	}

	for opId, op := range c.Ops {
		if !opIds.Contains(opId) {
			continue
		}

		op.Id = opId

		// expand program/user-defined template variables in the user-defined Ops section

		opTmplDataBuilder := cage_template.NewStringMapBuilder()

		// user-defined pairs
		opTmplDataBuilder.SetExpectedKey(opTmplExpectKeys...).Merge(cage_structs.MergeModeCombine, c.Template)

		// program-defined pairs
		opTmplDataBuilder.Merge(cage_structs.MergeModeOverwrite, progTemplateData)

		opValueStrings := []*string{
			&op.FixtureDir,
			&op.Fixer.VersionArg,
			&op.Fixer.MinVersion,
		}

		for s := range op.Fixer.Cmd {
			opValueStrings = append(opValueStrings, &op.Fixer.Cmd[s])
		}
		for s := range op.FixturePath.Include {
			opValueStrings = append(opValueStrings, &op.FixturePath.Include[s])
		}
		for s := range op.FixturePath.Exclude {
			opValueStrings = append(opValueStrings, &op.FixturePath.Exclude[s])
		}

		for _, s := range opValueStrings {
			*s = strings.TrimSpace(*s)
		}

		if expandErr := cage_template.ExpandFromStringMap(opTmplDataBuilder.Map(), opValueStrings...); expandErr != nil {
			errs = append(errs, errors.Wrapf(expandErr, "failed to expand template variables in Ops[%s]", opId))
			continue
		}

		for _, s := range opValueStrings {
			*s = os.ExpandEnv(*s)
		}

		// apply defaults, then resolve FixtureDir against the config file's directory

		if op.Ext.Input == "" {
			op.Ext.Input = DefaultInputSuffix
		}
		if op.Ext.Golden == "" {
			op.Ext.Golden = DefaultGoldenSuffix
		}
		if op.Ext.Archive == "" {
			op.Ext.Archive = DefaultArchiveSuffix
		}

		if !filepath.IsAbs(op.FixtureDir) {
			op.FixtureDir = filepath.Join(configFilePath, op.FixtureDir)
		}

		if len(op.FixturePath.Include) == 0 {
			op.FixturePath.Include = []string{"**"}
		}
		op.FixturePath.ResolveTo(op.FixtureDir)

		errs = append(errs, op.Validate()...)

		c.Ops[opId] = op
	}

	return errs
}
