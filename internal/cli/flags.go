package cli

import "pfx/internal/config"

// Flags holds command-line flags
type Flags struct {
	Processors   int
	Migrate      bool
	NoFresh      bool
	TestPath     string
	NameFilter   string
	TestCases    bool
	FailFast     bool
	NoFixtures   bool
	FixtureDir   string
	ShowFixtures bool
	OpenFailures bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Processors:   f.Processors,
		Migrate:      f.Migrate,
		NoFresh:      f.NoFresh,
		TestPath:     f.TestPath,
		NameFilter:   f.NameFilter,
		TestCases:    f.TestCases,
		FailFast:     f.FailFast,
		NoFixtures:   f.NoFixtures,
		FixtureDir:   f.FixtureDir,
		ShowFixtures: f.ShowFixtures,
		OpenFailures: f.OpenFailures,
	}
}
