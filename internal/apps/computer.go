package apps

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/tuixp/internal/theme"
	"github.com/charmbracelet/log"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// SystemInfo is what My Computer displays.
type SystemInfo struct {
	Hostname   string
	OS         string
	Platform   string
	Kernel     string
	Arch       string
	Uptime     time.Duration
	CPUModel   string
	CPUs       int
	CPUPercent float64
	MemTotal   uint64
	MemUsed    uint64
	Drives     []Drive
}

// Drive is one mounted partition.
type Drive struct {
	Mountpoint  string
	Fstype      string
	Total       uint64
	UsedPercent float64
}

// Probe collects system information.
type Probe func(ctx context.Context) (SystemInfo, error)

// HostProbe reads the local machine with gopsutil. Partial failures leave
// the affected fields empty; only a failed host lookup is an error.
func HostProbe(ctx context.Context) (SystemInfo, error) {
	var info SystemInfo

	h, err := host.InfoWithContext(ctx)
	if err != nil {
		return info, fmt.Errorf("host info: %w", err)
	}
	info.Hostname = h.Hostname
	info.OS = h.OS
	info.Platform = strings.TrimSpace(h.Platform + " " + h.PlatformVersion)
	info.Kernel = h.KernelVersion
	info.Arch = h.KernelArch
	info.Uptime = time.Duration(h.Uptime) * time.Second

	if n, err := cpu.CountsWithContext(ctx, true); err == nil {
		info.CPUs = n
	}
	if cpus, err := cpu.InfoWithContext(ctx); err == nil && len(cpus) > 0 {
		info.CPUModel = cpus[0].ModelName
	}
	if pct, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pct) > 0 {
		info.CPUPercent = pct[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		info.MemTotal = vm.Total
		info.MemUsed = vm.Used
	}
	if parts, err := disk.PartitionsWithContext(ctx, false); err == nil {
		for _, p := range parts {
			d := Drive{Mountpoint: p.Mountpoint, Fstype: p.Fstype}
			if u, err := disk.UsageWithContext(ctx, p.Mountpoint); err == nil {
				d.Total = u.Total
				d.UsedPercent = u.UsedPercent
			}
			info.Drives = append(info.Drives, d)
		}
	}
	return info, nil
}

// ComputerRefresh is how often My Computer samples the CPU.
const ComputerRefresh = time.Second

const cpuHistoryLen = 10

type (
	sysInfoMsg struct {
		c    *ComputerApp
		info SystemInfo
		err  error
	}
	sysRefreshMsg struct {
		c *ComputerApp
	}
)

func (m sysInfoMsg) Target() Body    { return m.c }
func (m sysRefreshMsg) Target() Body { return m.c }

// ComputerApp shows host, memory and drive information and a small CPU
// graph.
type ComputerApp struct {
	probe   Probe
	logger  *log.Logger
	info    SystemInfo
	err     error
	loaded  bool
	history []float64
	scroll  int
}

// NewComputer returns My Computer's body. A nil probe uses HostProbe.
func NewComputer(probe Probe, logger *log.Logger) *ComputerApp {
	if probe == nil {
		probe = HostProbe
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ComputerApp{probe: probe, logger: logger}
}

// Info returns the last sample.
func (c *ComputerApp) Info() (SystemInfo, bool) { return c.info, c.loaded && c.err == nil }

// CPUHistory returns the recent CPU samples, oldest first.
func (c *ComputerApp) CPUHistory() []float64 { return c.history }

func (c *ComputerApp) sample() tea.Cmd {
	probe := c.probe
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		info, err := probe(ctx)
		return sysInfoMsg{c: c, info: info, err: err}
	}
}

// Init takes the first sample.
func (c *ComputerApp) Init() tea.Cmd {
	return c.sample()
}

// Update records samples and schedules the next one.
func (c *ComputerApp) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case sysInfoMsg:
		c.loaded = true
		c.err = msg.err
		if msg.err != nil {
			c.logger.Warn("system probe failed", "err", msg.err)
		} else {
			c.info = msg.info
			c.history = append(c.history, msg.info.CPUPercent)
			if len(c.history) > cpuHistoryLen {
				c.history = c.history[len(c.history)-cpuHistoryLen:]
			}
		}
		return tea.Tick(ComputerRefresh, func(time.Time) tea.Msg {
			return sysRefreshMsg{c: c}
		})
	case sysRefreshMsg:
		return c.sample()
	}
	return nil
}

// HandleKey scrolls the drive list.
func (c *ComputerApp) HandleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "up":
		c.scroll = max(c.scroll-1, 0)
	case "down":
		c.scroll++
	}
	return nil
}

// CPUGraph renders the history as a ten cell bar graph followed by the
// latest percentage. The result always has the same width.
func CPUGraph(history []float64) string {
	bars := []rune("▁▂▃▄▅▆▇█")
	var sb strings.Builder
	if pad := cpuHistoryLen - len(history); pad > 0 {
		sb.WriteString(strings.Repeat(" ", pad))
	}
	for i, usage := range history {
		if i >= cpuHistoryLen {
			break
		}
		level := min(max(int(usage/12.5), 0), len(bars)-1)
		sb.WriteRune(bars[level])
	}
	current := 0.0
	if len(history) > 0 {
		current = history[len(history)-1]
	}
	return fmt.Sprintf("%s %3.0f%%", sb.String(), current)
}

// View implements Body.
func (c *ComputerApp) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	label := lipgloss.NewStyle().Bold(true)
	muted := lipgloss.NewStyle().Foreground(theme.Muted())

	var lines []string
	switch {
	case !c.loaded:
		lines = []string{muted.Render("Reading system information...")}
	case c.err != nil && c.info.Hostname == "":
		lines = []string{lipgloss.NewStyle().Foreground(theme.Error()).Render("System information unavailable"), muted.Render(c.err.Error())}
	default:
		i := c.info
		row := func(k, v string) string { return label.Render(fmt.Sprintf("%-10s", k)) + " " + v }
		lines = append(lines,
			row("Computer", i.Hostname),
			row("System", strings.TrimSpace(i.OS+" "+i.Platform)),
			row("Kernel", strings.TrimSpace(i.Kernel+" "+i.Arch)),
			row("Uptime", i.Uptime.Truncate(time.Minute).String()),
			row("Processor", fmt.Sprintf("%d x %s", i.CPUs, i.CPUModel)),
			row("CPU", CPUGraph(c.history)),
			row("Memory", fmt.Sprintf("%s of %s used", humanBytes(i.MemUsed), humanBytes(i.MemTotal))),
			"",
			label.Render("Drives"),
		)
		if len(i.Drives) == 0 {
			lines = append(lines, muted.Render("  none"))
		}
		for _, d := range i.Drives {
			lines = append(lines, fmt.Sprintf("  %-16s %-6s %9s %5.1f%%", d.Mountpoint, d.Fstype, humanBytes(d.Total), d.UsedPercent))
		}
	}

	c.scroll = min(c.scroll, max(len(lines)-height, 0))
	lines = lines[c.scroll:]
	if len(lines) > height {
		lines = lines[:height]
	}
	for i := range lines {
		lines[i] = fit(" "+lines[i], width)
	}
	return strings.Join(lines, "\n")
}

func humanBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
