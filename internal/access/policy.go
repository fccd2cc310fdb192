package access

import (
	"grimm.is/pywall/internal/config"
	"grimm.is/pywall/internal/logging"
	"grimm.is/pywall/internal/targets"
)

// settings is the part of *config.Store a policy is read from.
type settings interface {
	GetList(section, key string) (config.List, error)
	GetBool(section, key string) (bool, error)
	Set(section, key, value string) error
	Schema() config.Schema
	Logger() *logging.Logger
}

// PolicyFromStore reads the FILETYPE section into a target policy. A boolean
// key holding anything but a boolean is reset to its schema default.
func PolicyFromStore(s *config.Store) (targets.Policy, error) {
	return policyFrom(s)
}

func policyFrom(s settings) (targets.Policy, error) {
	accepted, err := s.GetList(config.SectionFiletype, config.KeyAcceptedTypes)
	if err != nil {
		return targets.Policy{}, err
	}
	blacklisted, err := s.GetList(config.SectionFiletype, config.KeyBlacklistedNames)
	if err != nil {
		return targets.Policy{}, err
	}
	return targets.Policy{
		AcceptedSuffixes: accepted,
		BlacklistedStems: blacklisted,
		Recursive:        boolOrDefault(s, config.KeyRecursive),
		ExactSuffix:      boolOrDefault(s, config.KeyExactSuffix),
	}, nil
}

func boolOrDefault(s settings, key string) bool {
	b, err := s.GetBool(config.SectionFiletype, key)
	if err == nil {
		return b
	}
	def, _ := s.Schema().Default(config.SectionFiletype, key)
	log := s.Logger()
	log.Warn("invalid boolean, resetting to default",
		"section", config.SectionFiletype, "key", key, "default", def, "error", err)
	if err := s.Set(config.SectionFiletype, key, def); err != nil {
		log.Exception(err, "failed to reset setting to default",
			"section", config.SectionFiletype, "key", key)
	}
	return def == "true"
}
