package chat_test

import (
	"fmt"
	"testing"

	chatmodel "github.com/palu-ai/palu-stream/backend/internal/model/chat"
	"github.com/palu-ai/palu-stream/backend/internal/model/persona"
	chat "github.com/palu-ai/palu-stream/backend/internal/service/chat"
)

func TestBufferSeedsOpeningLine(t *testing.T) {
	buffer := chat.NewBuffer(50, persona.Default())

	snapshot := buffer.Snapshot()
	if len(snapshot) != 1 {
		t.Fatalf("expected seeded opening line, got %d messages", len(snapshot))
	}
	if snapshot[0].Sender != chatmodel.SenderMax {
		t.Fatalf("opening line should come from the mascot, got %s", snapshot[0].Sender)
	}
}

func TestBufferEvictsOldest(t *testing.T) {
	buffer := chat.NewBuffer(50, persona.Persona{})

	for i := 0; i < 60; i++ {
		buffer.Append(chatmodel.Message{
			ID:      fmt.Sprintf("%d", i),
			Message: fmt.Sprintf("message %d", i),
			Sender:  chatmodel.SenderUser,
		})
	}

	snapshot := buffer.Snapshot()
	if len(snapshot) != 50 {
		t.Fatalf("expected buffer trimmed to 50, got %d", len(snapshot))
	}
	if snapshot[0].ID != "10" {
		t.Fatalf("expected oldest retained message to be id 10, got %s", snapshot[0].ID)
	}
	if snapshot[len(snapshot)-1].ID != "59" {
		t.Fatalf("expected newest message last, got %s", snapshot[len(snapshot)-1].ID)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	buffer := chat.NewBuffer(10, persona.Persona{})
	buffer.Append(chatmodel.Message{ID: "1", Message: "hi"})

	snapshot := buffer.Snapshot()
	snapshot[0].Message = "mutated"

	if got := buffer.Snapshot()[0].Message; got != "hi" {
		t.Fatalf("snapshot mutation leaked into the buffer: %s", got)
	}
}
