package pipeline

import (
	"github.com/ralt/rpm-builder/internal/builder"
	"github.com/ralt/rpm-builder/internal/config"
	"github.com/ralt/rpm-builder/internal/dependency"
)

// Plan lists the mutations for cfg in the order they are applied: files,
// changelog, requires, obsoletes, conflicts, provides, scripts. A changelog
// key that does not parse becomes a failing step in the changelog slot.
func Plan(cfg *config.Config) []Mutation {
	var plan []Mutation

	for _, src := range config.SortedKeys(cfg.Contents) {
		plan = append(plan, AddFile{Source: src, Option: cfg.Contents[src]})
	}

	records, err := cfg.Changelog.Records()
	if err != nil {
		plan = append(plan, InvalidChangelog{Err: err})
	}
	for _, r := range records {
		plan = append(plan, AddChangelog{Author: r.Author, Text: r.Entry, Time: r.Time})
	}

	plan = appendDependencies(plan, builder.Requires, cfg.Requires)
	plan = appendDependencies(plan, builder.Obsoletes, cfg.Obsoletes)
	plan = appendDependencies(plan, builder.Conflicts, cfg.Conflicts)
	plan = appendDependencies(plan, builder.Provides, cfg.Provides)

	if s := cfg.Scripts; s != nil {
		for _, slot := range []struct {
			hook builder.Hook
			path *string
		}{
			{builder.PreInstall, s.PreInstall},
			{builder.PostInstall, s.PostInstall},
			{builder.PreUninstall, s.PreUninstall},
			{builder.PostUninstall, s.PostUninstall},
		} {
			if slot.path != nil {
				plan = append(plan, SetScript{Hook: slot.hook, Path: *slot.path})
			}
		}
	}

	return plan
}

func appendDependencies(plan []Mutation, kind builder.Relationship, deps map[string]string) []Mutation {
	for _, name := range config.SortedKeys(deps) {
		plan = append(plan, AddDependency{Kind: kind, Constraint: dependency.Parse(name, deps[name])})
	}
	return plan
}
