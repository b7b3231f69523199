package hotelapi

import (
	"context"
	"net/http"
)

// ChatService wraps /Chat.
type ChatService struct {
	client *Client
}

func (s *ChatService) Send(ctx context.Context, message string) (*ChatReply, error) {
	reply, err := Do[ChatReply](ctx, s.client, Call{Method: http.MethodPost, Path: "/Chat/message", Body: ChatRequest{Message: message}})
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

func (s *ChatService) Status(ctx context.Context) (*ChatStatus, error) {
	status, err := Do[ChatStatus](ctx, s.client, Call{Path: "/Chat/status"})
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *ChatService) Commands(ctx context.Context) ([]ChatCommand, error) {
	return Do[[]ChatCommand](ctx, s.client, Call{Path: "/Chat/commands"})
}
