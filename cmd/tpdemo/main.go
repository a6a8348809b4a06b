// Command tpdemo drives a trajectory planner through a short XY corner
// move and prints the per-cycle servo status.
//
// Usage:
//
//	tpdemo [flags]
//
// Examples:
//
//	tpdemo
//	tpdemo -cycle 0.5ms -every 20
//	tpdemo -corner=false
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/gorilerman/linuxcnc/posemath"
	"github.com/gorilerman/linuxcnc/tp"
)

// consoleHost is a HostCallbacks implementation that just logs DIO/AIO
// writes to stderr; the rotary axis is always reported unlocked since this
// demo never indexes one.
type consoleHost struct{}

func (consoleHost) DioWrite(index int, value bool) {
	fmt.Fprintf(os.Stderr, "dio[%d] = %v\n", index, value)
}

func (consoleHost) AioWrite(index int, value float64) {
	fmt.Fprintf(os.Stderr, "aio[%d] = %v\n", index, value)
}

func (consoleHost) SetRotaryUnlock(axis int, unlock bool) {}

func (consoleHost) IsRotaryUnlocked(axis int) bool { return true }

func main() {
	cycle := flag.Duration("cycle", time.Millisecond, "servo cycle period")
	every := flag.Int("every", 10, "print status every N cycles")
	corner := flag.Bool("corner", true, "move through a 90-degree corner (exercises blending) instead of a single straight line")
	vel := flag.Float64("vel", 25, "requested feed velocity, units/sec")
	accel := flag.Float64("accel", 400, "max acceleration, units/sec^2")
	maxCycles := flag.Int("max-cycles", 20000, "give up after this many cycles without reaching done")
	flag.Parse()

	planner := tp.New(tp.WithLookaheadDepth(20))
	must(planner.SetCycleTime(cycle.Seconds()))
	must(planner.SetVmax(*vel*2, *vel*2))
	must(planner.SetVlimit(*vel * 2))
	must(planner.SetAmax(*accel))
	must(planner.SetTermCond(tp.TermParabolic, 0.02))
	planner.SetHost(consoleHost{})

	planner.SetPos(posemath.Pose{})

	corner1 := posemath.FromXYZ(posemath.Vector3{X: 20})
	must(planner.AddLine(corner1, tp.CanonFeed, *vel, *vel, *accel, 0, false, -1))

	if *corner {
		end := posemath.FromXYZ(posemath.Vector3{X: 20, Y: 20})
		must(planner.AddLine(end, tp.CanonFeed, *vel, *vel, *accel, 0, false, -1))
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Cycle\tExecID\tMotion\tVel\tDTG\tQLen")

	for n := 0; n < *maxCycles; n++ {
		report := planner.RunCycle(*cycle)
		for _, w := range report.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w.Message)
		}

		if n%*every == 0 || report.Done {
			st := planner.Status()
			fmt.Fprintf(tw, "%d\t%d\t%v\t%.3f\t%.3f\t%d\n",
				n, st.ExecID, st.MotionType, st.CurrentVel, st.DistanceToGo, st.TCQLen)
		}

		if report.Done {
			break
		}
	}

	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}

	final := planner.GetPos()
	fmt.Printf("final position: %v\n", final)
}

func must(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
