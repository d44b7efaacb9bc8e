package models

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/shibukawa/configdir"
	"gopkg.in/yaml.v3"
)

const ConfigName = "config.yaml"

// Units is the number of units the substrate declares per device class.
type Units struct {
	Clock int `yaml:"clock"`
	Disk  int `yaml:"disk"`
	Term  int `yaml:"term"`
}

// Count returns the declared unit count for dev. The syscall trap has no units.
func (u Units) Count(dev DeviceClass) int {
	switch dev {
	case ClockDev:
		return u.Clock
	case DiskDev:
		return u.Disk
	case TermDev:
		return u.Term
	}
	return 0
}

type Config struct {
	Color   bool `yaml:"color"`
	Verbose bool `yaml:"verbose"`

	Units Units `yaml:"units"`
	// ClockDivider is how many clock ticks pass between clock notifications.
	ClockDivider int `yaml:"clock_divider"`
	MaxSyscalls  int `yaml:"max_syscalls"`
	MailboxSlots int `yaml:"mailbox_slots"`
	// DropPolicy is "overwrite" or "drop-newest".
	DropPolicy   string        `yaml:"drop_policy"`
	TickInterval time.Duration `yaml:"tick_interval"`
	Tracefile    string        `yaml:"tracefile"`

	Output io.Writer `yaml:"-"`
}

// Init fills in defaults for anything left unset.
func (c *Config) Init() {
	if c.Units == (Units{}) {
		c.Units = Units{Clock: 1, Disk: 2, Term: 4}
	} else if c.Units.Clock == 0 {
		c.Units.Clock = 1
	}
	if c.ClockDivider == 0 {
		c.ClockDivider = 5
	}
	if c.MaxSyscalls == 0 {
		c.MaxSyscalls = 50
	}
	if c.MailboxSlots == 0 {
		c.MailboxSlots = 1
	}
	if c.DropPolicy == "" {
		c.DropPolicy = PolicyOverwrite.String()
	}
	if c.TickInterval == 0 {
		c.TickInterval = 20 * time.Millisecond
	}
	if c.Output == nil {
		c.Output = os.Stderr
	}
}

func (c *Config) Validate() error {
	if c.Units.Clock != 1 {
		return errors.Errorf("units.clock must be 1, got %d", c.Units.Clock)
	}
	if c.Units.Disk < 0 || c.Units.Term < 0 {
		return errors.Errorf("negative unit count: disk=%d term=%d", c.Units.Disk, c.Units.Term)
	}
	if c.ClockDivider < 1 {
		return errors.Errorf("clock_divider must be >= 1, got %d", c.ClockDivider)
	}
	if c.MaxSyscalls < 1 {
		return errors.Errorf("max_syscalls must be >= 1, got %d", c.MaxSyscalls)
	}
	if c.MailboxSlots < 1 {
		return errors.Errorf("mailbox_slots must be >= 1, got %d", c.MailboxSlots)
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Policy() (Policy, error) {
	switch c.DropPolicy {
	case "", PolicyOverwrite.String():
		return PolicyOverwrite, nil
	case PolicyDropNewest.String():
		return PolicyDropNewest, nil
	}
	return 0, errors.Errorf("unknown drop_policy %q", c.DropPolicy)
}

func ParseConfig(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(err, "yaml.Unmarshal() failed")
	}
	c.Init()
	return c, nil
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	return ParseConfig(data)
}

// FindConfig returns the first config.yaml in the user and system config
// folders, or "" if there is none.
func FindConfig() string {
	dirs := configdir.New("intrbox", "")
	if folder := dirs.QueryFolderContainsFile(ConfigName); folder != nil {
		return folder.Path + string(os.PathSeparator) + ConfigName
	}
	return ""
}
