package chain

import (
	"context"
	"errors"
	"testing"
	"time"
)

func outputs(names ...string) []string {
	return names
}

func TestRunExecutesAllSteps(t *testing.T) {
	var got [][2]string
	d := Driver{Exists: func(string) bool { return false }}
	res, err := d.Run(context.Background(), Chain{
		Source:  "src.png",
		Outputs: outputs("out_1.png", "out_2.png", "out_3.png"),
		Run: func(_ context.Context, step int, input, output string) error {
			got = append(got, [2]string{input, output})
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != StatusDone || res.Executed != 3 || res.Skipped != 0 {
		t.Fatalf("result = %+v", res)
	}
	if res.Final != "out_3.png" {
		t.Fatalf("final = %q", res.Final)
	}
	want := [][2]string{
		{"src.png", "out_1.png"},
		{"out_1.png", "out_2.png"},
		{"out_2.png", "out_3.png"},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("step %d ran %v, want %v", i+1, got[i], want[i])
		}
	}
}

func TestRunResumesAfterExistingOutputs(t *testing.T) {
	existing := map[string]bool{"out_1.png": true, "out_2.png": true}
	var ran []int
	var inputs []string
	d := Driver{Exists: func(p string) bool { return existing[p] }}
	res, err := d.Run(context.Background(), Chain{
		Source:  "src.png",
		Outputs: outputs("out_1.png", "out_2.png", "out_3.png"),
		Run: func(_ context.Context, step int, input, output string) error {
			ran = append(ran, step)
			inputs = append(inputs, input)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != StatusDone || res.Executed != 1 || res.Skipped != 2 {
		t.Fatalf("result = %+v", res)
	}
	if len(ran) != 1 || ran[0] != 3 {
		t.Fatalf("ran steps %v, want [3]", ran)
	}
	if inputs[0] != "out_2.png" {
		t.Fatalf("resumed input = %q, want out_2.png", inputs[0])
	}
}

func TestRunFullyCompletedChainExecutesNothing(t *testing.T) {
	d := Driver{Exists: func(string) bool { return true }}
	res, err := d.Run(context.Background(), Chain{
		Source:  "src.png",
		Outputs: outputs("out_1.png", "out_2.png"),
		Run: func(_ context.Context, step int, _, _ string) error {
			t.Fatalf("step %d executed on a completed chain", step)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != StatusDone || res.Executed != 0 || res.Skipped != 2 {
		t.Fatalf("result = %+v", res)
	}
}

func TestRunAbortsOnStepFailure(t *testing.T) {
	boom := errors.New("service rejected workflow")
	var ran []int
	d := Driver{Exists: func(string) bool { return false }}
	res, err := d.Run(context.Background(), Chain{
		Source:  "src.png",
		Outputs: outputs("out_1.png", "out_2.png", "out_3.png"),
		Run: func(_ context.Context, step int, _, _ string) error {
			ran = append(ran, step)
			if step == 2 {
				return boom
			}
			return nil
		},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if res.Status != StatusAborted || res.FailedStep != 2 {
		t.Fatalf("result = %+v", res)
	}
	if res.Executed != 1 || res.Final != "out_1.png" {
		t.Fatalf("progress = %+v", res)
	}
	if len(ran) != 2 {
		t.Fatalf("ran %v, later steps must not run after abort", ran)
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := Driver{Exists: func(string) bool { return false }, Pause: time.Minute}
	_, err := d.Run(ctx, Chain{
		Source:  "src.png",
		Outputs: outputs("out_1.png", "out_2.png"),
		Run: func(_ context.Context, step int, _, _ string) error {
			cancel()
			return nil
		},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestStatusString(t *testing.T) {
	cases := map[Status]string{
		StatusPending: "pending",
		StatusDone:    "done",
		StatusAborted: "aborted",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(status), got, want)
		}
	}
}
