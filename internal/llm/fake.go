package llm

import "context"

// FakeReply scripts one GenerateText outcome for the FakeClient.
type FakeReply struct {
	Text  string
	Usage Usage
	Err   error
}

// FakeClient replays scripted replies in order for offline testing. Once
// the script runs out it returns ErrEmptyResponse.
type FakeClient struct {
	Replies []FakeReply
	Calls   int
	Prompts []string
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateText(ctx context.Context, system, user string, maxTokens int) (string, Usage, error) {
	f.Calls++
	f.Prompts = append(f.Prompts, user)
	if len(f.Replies) == 0 {
		return "", Usage{}, NewPermanentError(ErrEmptyResponse)
	}
	reply := f.Replies[0]
	f.Replies = f.Replies[1:]
	return reply.Text, reply.Usage, reply.Err
}
