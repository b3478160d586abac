package flows

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MankweAI/goat-edtech/internal/hints"
	"github.com/MankweAI/goat-edtech/internal/models"
	"github.com/MankweAI/goat-edtech/internal/ocr"
	"github.com/MankweAI/goat-edtech/internal/render"
	"github.com/MankweAI/goat-edtech/pkg/config"
)

type fakeOCR struct {
	result ocr.Result
	err    error
	calls  int
}

func (f *fakeOCR) Recognize(ctx context.Context, image []byte) (ocr.Result, error) {
	f.calls++
	if f.err != nil {
		return ocr.Result{}, f.err
	}
	return f.result, nil
}

const homeworkPage = "1. Solve 2x+3=9\n2. Find the area of a triangle with base 6 cm and height 4 cm"

func testHomeworkFlow(client ocr.Client) *HomeworkFlow {
	cfg := config.OCRConfig{
		Timeout:         time.Second,
		CacheSize:       8,
		CacheTTL:        time.Minute,
		DownloadTimeout: time.Second,
		MaxImageBytes:   5 << 20,
	}
	svc := ocr.NewService(cfg, zap.NewNop())
	if client != nil {
		svc = svc.WithClient(client)
	}
	return NewHomeworkFlow(svc, hints.NewEngine(config.OpenAIConfig{}, zap.NewNop()), cfg, zap.NewNop())
}

func pageImage() []byte {
	return bytes.Repeat([]byte{0x89, 0x50, 0x4e, 0x47}, 64)
}

func TestHomeworkHappyPath(t *testing.T) {
	fake := &fakeOCR{result: ocr.Result{Text: homeworkPage, Confidence: 0.92}}
	f := testHomeworkFlow(fake)
	sub := models.NewSubscriber("learner-1")
	ctx := context.Background()
	f.Enter(sub)

	turn := f.HandleImage(ctx, sub, InboundImage{Data: pageImage()})

	require.Equal(t, models.StatusSuccess, turn.Status)
	assert.Contains(t, turn.Body, "2 questions")
	assert.Contains(t, turn.Body, "1️⃣")
	assert.Contains(t, turn.Body, "2️⃣")
	assert.Contains(t, turn.Body, "Which one")

	h := sub.Homework
	require.Len(t, h.Questions, 2)
	assert.Equal(t, models.HomeworkQuestionsDetected, h.State)
	assert.NotEmpty(t, h.ImageHash)

	turn = f.Handle(ctx, sub, "1")
	assert.Contains(t, turn.Body, "Hint 1")
	assert.NotContains(t, turn.Body, "x = 3")
	assert.Equal(t, models.HomeworkProvidingHint, h.State)
	assert.Equal(t, 1, h.HintCount)
	assert.Equal(t, models.HintInstant, h.LastHintType)
}

func TestHomeworkRepeatedPhotoGetsRepeatMarker(t *testing.T) {
	fake := &fakeOCR{result: ocr.Result{Text: homeworkPage, Confidence: 0.92}}
	f := testHomeworkFlow(fake)
	sub := models.NewSubscriber("learner-1")
	ctx := context.Background()
	f.Enter(sub)

	turn := f.HandleImage(ctx, sub, InboundImage{Data: pageImage()})
	require.Equal(t, models.StatusSuccess, turn.Status)
	assert.NotContains(t, turn.Body, render.MarkerRepeat)

	turn = f.HandleImage(ctx, sub, InboundImage{Data: pageImage()})
	require.Equal(t, models.StatusSuccess, turn.Status)
	assert.Contains(t, turn.Body, render.MarkerRepeat)
	assert.Contains(t, turn.Body, "Which one", "resends still list the questions")

	turn = f.HandleImage(ctx, sub, InboundImage{Data: bytes.Repeat([]byte{0x42}, 256)})
	require.Equal(t, models.StatusSuccess, turn.Status)
	assert.NotContains(t, turn.Body, render.MarkerRepeat, "a different photo starts fresh")
}

func TestHomeworkFollowUpRotatesStrategy(t *testing.T) {
	fake := &fakeOCR{result: ocr.Result{Text: homeworkPage, Confidence: 0.92}}
	f := testHomeworkFlow(fake)
	sub := models.NewSubscriber("learner-1")
	ctx := context.Background()
	f.Enter(sub)
	f.HandleImage(ctx, sub, InboundImage{Data: pageImage()})
	f.Handle(ctx, sub, "1")

	turn := f.Handle(ctx, sub, "more")

	h := sub.Homework
	assert.Contains(t, turn.Body, "Hint 2")
	assert.Equal(t, 2, h.HintCount)
	assert.Equal(t, models.HintDynamic, h.LastHintType, "second hint rotates off the instant template")
	assert.NotContains(t, turn.Body, "x = 3")
}

func TestHomeworkNeverRevealsAnswer(t *testing.T) {
	fake := &fakeOCR{result: ocr.Result{Text: homeworkPage, Confidence: 0.92}}
	f := testHomeworkFlow(fake)
	sub := models.NewSubscriber("learner-1")
	ctx := context.Background()
	f.Enter(sub)
	f.HandleImage(ctx, sub, InboundImage{Data: pageImage()})
	f.Handle(ctx, sub, "1")

	turn := f.Handle(ctx, sub, "just tell me the answer")

	assert.Contains(t, turn.Body, "won't give the final answer")
	assert.Contains(t, turn.Body, "Hint")
	assert.NotContains(t, turn.Body, "x = 3")
}

func TestHomeworkSwitchQuestionResetsHints(t *testing.T) {
	fake := &fakeOCR{result: ocr.Result{Text: homeworkPage, Confidence: 0.92}}
	f := testHomeworkFlow(fake)
	sub := models.NewSubscriber("learner-1")
	ctx := context.Background()
	f.Enter(sub)
	f.HandleImage(ctx, sub, InboundImage{Data: pageImage()})
	f.Handle(ctx, sub, "1")
	f.Handle(ctx, sub, "more")

	turn := f.Handle(ctx, sub, "2")

	h := sub.Homework
	require.NotNil(t, h.Selected)
	assert.Equal(t, 2, h.Selected.Number)
	assert.Equal(t, 1, h.HintCount)
	assert.Contains(t, turn.Body, "Hint 1")
}

func TestHomeworkNudgesOnUnrelatedText(t *testing.T) {
	fake := &fakeOCR{result: ocr.Result{Text: homeworkPage, Confidence: 0.92}}
	f := testHomeworkFlow(fake)
	sub := models.NewSubscriber("learner-1")
	ctx := context.Background()
	f.Enter(sub)
	f.HandleImage(ctx, sub, InboundImage{Data: pageImage()})
	f.Handle(ctx, sub, "1")
	before := sub.Homework.HintCount

	turn := f.Handle(ctx, sub, "ok thanks")

	assert.Contains(t, turn.Body, "more")
	assert.Equal(t, before, sub.Homework.HintCount)
}

func TestHomeworkImageTooSmall(t *testing.T) {
	f := testHomeworkFlow(&fakeOCR{})
	sub := models.NewSubscriber("learner-1")
	f.Enter(sub)

	turn := f.HandleImage(context.Background(), sub, InboundImage{Data: []byte("tiny")})

	assert.Equal(t, models.StatusError, turn.Status)
	assert.Contains(t, turn.Body, "Image too small or invalid")
	assert.Equal(t, models.HomeworkAwaitingImage, sub.Homework.State)
}

func TestHomeworkImageTooLarge(t *testing.T) {
	f := testHomeworkFlow(&fakeOCR{})
	sub := models.NewSubscriber("learner-1")
	f.Enter(sub)

	turn := f.HandleImage(context.Background(), sub, InboundImage{Data: make([]byte, 5<<20+1)})

	assert.Equal(t, models.StatusError, turn.Status)
	assert.Contains(t, turn.Body, "Image too large (max 5MB)")
}

func TestHomeworkNoQuestionsReprompts(t *testing.T) {
	fake := &fakeOCR{result: ocr.Result{Text: "blurry smudges", Confidence: 0.5}}
	f := testHomeworkFlow(fake)
	sub := models.NewSubscriber("learner-1")
	f.Enter(sub)

	turn := f.HandleImage(context.Background(), sub, InboundImage{Data: pageImage()})

	assert.Equal(t, models.StatusNoQuestions, turn.Status)
	assert.Contains(t, turn.Body, "clearer")
	assert.Equal(t, models.HomeworkAwaitingImage, sub.Homework.State)
}

func TestHomeworkWithoutOCRBackend(t *testing.T) {
	f := testHomeworkFlow(nil)
	sub := models.NewSubscriber("learner-1")
	f.Enter(sub)

	turn := f.HandleImage(context.Background(), sub, InboundImage{Data: pageImage()})

	assert.Equal(t, models.StatusError, turn.Status)
	assert.Contains(t, turn.Body, "can't read photos right now")
}

func TestHomeworkTextBeforeImage(t *testing.T) {
	f := testHomeworkFlow(&fakeOCR{})
	sub := models.NewSubscriber("learner-1")
	f.Enter(sub)

	turn := f.Handle(context.Background(), sub, "can you help with algebra")

	assert.Contains(t, turn.Body, "photo")
	assert.Equal(t, models.HomeworkAwaitingImage, sub.Homework.State)
}

func TestHomeworkDownloadsImageURL(t *testing.T) {
	fake := &fakeOCR{result: ocr.Result{Text: homeworkPage, Confidence: 0.92}}
	f := testHomeworkFlow(fake)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pageImage())
	}))
	defer srv.Close()
	sub := models.NewSubscriber("learner-1")
	f.Enter(sub)

	turn := f.HandleImage(context.Background(), sub, InboundImage{URL: srv.URL + "/page.jpg"})

	assert.Equal(t, models.StatusSuccess, turn.Status)
	assert.Equal(t, 1, fake.calls)
	assert.Len(t, sub.Homework.Questions, 2)
}

func TestHomeworkDownloadFailure(t *testing.T) {
	f := testHomeworkFlow(&fakeOCR{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()
	sub := models.NewSubscriber("learner-1")
	f.Enter(sub)

	turn := f.HandleImage(context.Background(), sub, InboundImage{URL: srv.URL + "/gone.jpg"})

	assert.Equal(t, models.StatusError, turn.Status)
	assert.Contains(t, turn.Body, "couldn't fetch")
}
