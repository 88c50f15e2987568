package pipeline

import (
	"time"
)

// Snapshot is one poll of the pipeline's run list. Err is set when the poll
// itself failed; the previous snapshot stays valid in that case.
type Snapshot struct {
	Runs []Run
	Err  error
	At   time.Time
}

// Poller re-queries run status on a fixed interval. Status is read-only and
// idempotent, so overlapping manual refreshes are harmless.
type Poller struct {
	client   Client
	interval time.Duration

	snapshots chan Snapshot
	stop      chan struct{}
	done      chan struct{}
}

// NewPoller returns a poller delivering snapshots on Snapshots(). An interval
// of zero disables polling: Start is a no-op and the channel never fires.
func NewPoller(client Client, interval time.Duration) *Poller {
	return &Poller{
		client:    client,
		interval:  interval,
		snapshots: make(chan Snapshot, 1),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (p *Poller) Snapshots() <-chan Snapshot {
	return p.snapshots
}

func (p *Poller) Start() {
	if p.interval <= 0 {
		close(p.done)
		return
	}
	go func() {
		defer close(p.done)
		t := time.NewTicker(p.interval)
		defer t.Stop()
		p.publish(p.poll())
		for {
			select {
			case <-p.stop:
				return
			case <-t.C:
				p.publish(p.poll())
			}
		}
	}()
}

// Stop cancels the polling loop. An in-flight subprocess runs to completion;
// its snapshot is dropped.
func (p *Poller) Stop() {
	close(p.stop)
	<-p.done
}

func (p *Poller) poll() Snapshot {
	res, err := p.client.Status()
	return Snapshot{Runs: res.Runs, Err: err, At: time.Now()}
}

func (p *Poller) publish(s Snapshot) {
	// Keep only the freshest snapshot when the consumer lags.
	select {
	case <-p.snapshots:
	default:
	}
	select {
	case p.snapshots <- s:
	case <-p.stop:
	}
}
