package interact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// Step types of an event script.
const (
	StepClick     = "click"
	StepExpand    = "expand"
	StepHamburger = "hamburger"
	StepBack      = "back"
	StepKey       = "key"
	StepFocus     = "focus"
	StepFocusOut  = "focusout"
	StepResize    = "resize"
	StepAdvance   = "advance"
)

var ErrNoClock = errors.New("advance needs a manual clock")

// Step is one user input or clock tick replayed against a controller.
type Step struct {
	Type  string `json:"type"`
	Item  string `json:"item,omitempty"`  // click, expand, focus: item id or label
	Key   string `json:"key,omitempty"`   // key: Escape, Enter, Space
	Width int    `json:"width,omitempty"` // resize
	MS    int    `json:"ms,omitempty"`    // advance
}

// Script is an ordered list of steps.
type Script []Step

// ParseScript decodes a JSON array of steps.
func ParseScript(r io.Reader) (Script, error) {
	var s Script
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	for i, st := range s {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}
	return s, nil
}

func (st Step) validate() error {
	switch st.Type {
	case StepClick, StepExpand, StepFocus:
		if st.Item == "" {
			return fmt.Errorf("%s needs an item", st.Type)
		}
	case StepKey:
		if st.Key == "" {
			return errors.New("key needs a key")
		}
	case StepResize:
		if st.Width <= 0 {
			return fmt.Errorf("resize needs a positive width, got %d", st.Width)
		}
	case StepAdvance:
		if st.MS < 0 {
			return fmt.Errorf("advance needs a non-negative duration, got %d", st.MS)
		}
	case StepHamburger, StepBack, StepFocusOut:
	default:
		return fmt.Errorf("unknown step type %q", st.Type)
	}
	return nil
}

// Run replays the script against c and stops at the first failing step.
// Advance steps move clock; clock may be nil when the script has none.
func (s Script) Run(c *Controller, clock *ManualClock) error {
	for i, st := range s {
		if err := st.apply(c, clock); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, st.Type, err)
		}
	}
	return nil
}

func (st Step) apply(c *Controller, clock *ManualClock) error {
	switch st.Type {
	case StepClick:
		return c.Click(st.Item)
	case StepExpand:
		return c.ClickExpand(st.Item)
	case StepHamburger:
		return c.ToggleMenu()
	case StepBack:
		return c.Back()
	case StepKey:
		c.KeyDown(st.Key)
	case StepFocus:
		return c.Focus(st.Item)
	case StepFocusOut:
		c.FocusOut()
	case StepResize:
		c.Resize(st.Width)
	case StepAdvance:
		if clock == nil {
			return ErrNoClock
		}
		clock.Advance(time.Duration(st.MS) * time.Millisecond)
	default:
		return fmt.Errorf("unknown step type %q", st.Type)
	}
	return nil
}
