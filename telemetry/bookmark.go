package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkAllArrived      BookmarkType = "all_arrived"
	BookmarkCutOff          BookmarkType = "destination_cut_off"
	BookmarkCongestionSpike BookmarkType = "congestion_spike"
	BookmarkSettled         BookmarkType = "settled"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in a navigation run.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	allArrived    bool // latched until an agent leaves the destination again
	cutOff        bool // latched while some agents cannot reach the destination
	quietWindows  int  // consecutive windows without solves
	settledMarked bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkAllArrived(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkCutOff(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkCongestionSpike(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkSettled(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkAllArrived(stats WindowStats) *Bookmark {
	done := stats.Agents > 0 && stats.Arrived == stats.Agents
	if !done {
		bd.allArrived = false
		return nil
	}
	if bd.allArrived {
		return nil
	}
	bd.allArrived = true
	return &Bookmark{
		Type:        BookmarkAllArrived,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("All %d agents reached the destination after %.1fs", stats.Agents, stats.SimTimeSec),
	}
}

func (bd *BookmarkDetector) checkCutOff(stats WindowStats) *Bookmark {
	if stats.Stuck == 0 {
		bd.cutOff = false
		return nil
	}
	if bd.cutOff {
		return nil
	}
	bd.cutOff = true
	return &Bookmark{
		Type:        BookmarkCutOff,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d agents cannot reach the destination (%d nodes unreachable)", stats.Stuck, stats.UnreachableNodes),
	}
}

func (bd *BookmarkDetector) checkCongestionSpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 || stats.MaxTraffic <= 0 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.MaxTraffic
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.MaxTraffic > avg*2.0 {
		return &Bookmark{
			Type:        BookmarkCongestionSpike,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Peak traffic %.2f is %.1fx average (%.2f)", stats.MaxTraffic, stats.MaxTraffic/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	if stats.Solves > 0 {
		bd.quietWindows = 0
		bd.settledMarked = false
		return nil
	}
	bd.quietWindows++
	if bd.quietWindows < 3 || bd.settledMarked {
		return nil
	}
	bd.settledMarked = true
	return &Bookmark{
		Type:        BookmarkSettled,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("No re-solves for %d windows, median cost-to-go %.1f", bd.quietWindows, stats.CostP50),
	}
}
