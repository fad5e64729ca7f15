package ctxutil

import (
	"context"
	"testing"
)

func TestLogFields(t *testing.T) {
	if LogFields(context.Background()) != nil {
		t.Fatal("expected no fields without trace data")
	}
	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "t1", RequestID: "r1"})
	got := LogFields(ctx)
	if len(got) != 4 || got[1] != "t1" || got[3] != "r1" {
		t.Fatalf("got %v", got)
	}
}
