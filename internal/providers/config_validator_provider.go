package providers

import (
	"fmt"
	"panelkeeper/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

// Validate checks struct tags first, then the rules tags cannot express.
func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.One())
	}

	for _, m := range cv.conf.Mechanics.ReminderMinutes {
		if m < 0 || m > 59 {
			return fmt.Errorf("invalid config: reminder minute %d out of range 0-59", m)
		}
	}
	for name, value := range cv.conf.Mechanics.Actions {
		if name == "" {
			return fmt.Errorf("invalid config: empty action name")
		}
		if name == "placed" || name == "fixes" {
			return fmt.Errorf("invalid config: action %q clashes with a panel counter", name)
		}
		if value < 0 {
			return fmt.Errorf("invalid config: action %q has negative value", name)
		}
	}
	return nil
}
