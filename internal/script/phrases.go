package script

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/model"
)

//go:embed phrases.yaml
var defaultPhrases []byte

// ByTone holds one template per tone.
type ByTone map[model.Tone]string

// ByScenario holds one template per scenario and tone.
type ByScenario map[model.Scenario]ByTone

// AskPhrases holds the ask templates. Pure and Mixed are keyed by
// "<tone>_<tier>".
type AskPhrases struct {
	AboveMarket ByTone            `yaml:"above_market"`
	Pure        map[string]string `yaml:"pure"`
	Mixed       map[string]string `yaml:"mixed"`
}

// PhraseBank is the full set of templates a Composer draws from. It is not
// modified after loading.
type PhraseBank struct {
	Subject       ByScenario `yaml:"subject"`
	Opener        ByScenario `yaml:"opener"`
	Recap         ByTone     `yaml:"recap"`
	RecapBonus    ByTone     `yaml:"recap_bonus"`
	Framing       ByScenario `yaml:"framing"`
	Gap           ByTone     `yaml:"gap"`
	Ask           AskPhrases `yaml:"ask"`
	Collaboration ByTone     `yaml:"collaboration"`
	Closing       ByScenario `yaml:"closing"`
}

var (
	scenarios = []model.Scenario{model.ScenarioExternal, model.ScenarioInternalRaise, model.ScenarioRetention}
	tones     = []model.Tone{model.TonePolite, model.ToneProfessional, model.ToneAggressive}
	tiers     = []model.Tier{model.TierLow, model.TierModerate, model.TierHigh}
)

// pureCombos are the tone and tier pairings with a hand-written ask.
var pureCombos = map[string]bool{
	comboKey(model.TonePolite, model.TierLow):            true,
	comboKey(model.ToneProfessional, model.TierModerate): true,
	comboKey(model.ToneAggressive, model.TierHigh):       true,
}

func comboKey(tone model.Tone, tier model.Tier) string {
	return string(tone) + "_" + string(tier)
}

// DefaultPhraseBank parses the embedded phrase bank.
func DefaultPhraseBank() (*PhraseBank, error) {
	return ParsePhraseBank(defaultPhrases)
}

// LoadPhraseBank reads a phrase bank from path, or the embedded bank when
// path is empty.
func LoadPhraseBank(path string) (*PhraseBank, error) {
	if path == "" {
		return DefaultPhraseBank()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "script: read phrase bank %s", path)
	}
	pb, err := ParsePhraseBank(data)
	if err != nil {
		return nil, eris.Wrapf(err, "script: load phrase bank %s", path)
	}
	return pb, nil
}

// ParsePhraseBank decodes and validates a YAML phrase bank.
func ParsePhraseBank(data []byte) (*PhraseBank, error) {
	var pb PhraseBank
	if err := yaml.Unmarshal(data, &pb); err != nil {
		return nil, eris.Wrap(err, "script: parse phrase bank")
	}
	if err := pb.Validate(); err != nil {
		return nil, err
	}
	return &pb, nil
}

// Validate checks that every scenario, tone and tier combination has a
// template.
func (pb *PhraseBank) Validate() error {
	var missing []string

	for name, bank := range map[string]ByScenario{
		"subject": pb.Subject, "opener": pb.Opener, "framing": pb.Framing, "closing": pb.Closing,
	} {
		for _, s := range scenarios {
			for _, t := range tones {
				if strings.TrimSpace(bank[s][t]) == "" {
					missing = append(missing, fmt.Sprintf("%s.%s.%s", name, s, t))
				}
			}
		}
	}

	for name, bank := range map[string]ByTone{
		"recap": pb.Recap, "recap_bonus": pb.RecapBonus, "gap": pb.Gap,
		"collaboration": pb.Collaboration, "ask.above_market": pb.Ask.AboveMarket,
	} {
		for _, t := range tones {
			if strings.TrimSpace(bank[t]) == "" {
				missing = append(missing, fmt.Sprintf("%s.%s", name, t))
			}
		}
	}

	for _, t := range tones {
		for _, tier := range tiers {
			key := comboKey(t, tier)
			bank, name := pb.Ask.Mixed, "ask.mixed."
			if pureCombos[key] {
				bank, name = pb.Ask.Pure, "ask.pure."
			}
			if !strings.Contains(bank[key], "{target}") {
				missing = append(missing, name+key)
			}
		}
	}
	for _, t := range tones {
		if !strings.Contains(pb.Ask.AboveMarket[t], "{target}") {
			missing = append(missing, "ask.above_market."+string(t)+" {target}")
		}
	}

	if len(missing) > 0 {
		slices.Sort(missing)
		return eris.Errorf("script: phrase bank incomplete: %s", strings.Join(missing, ", "))
	}
	return nil
}
