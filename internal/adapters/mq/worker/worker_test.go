package worker_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/gdax/internal/adapters/mq/queue"
	worker "github.com/okian/gdax/internal/adapters/mq/worker"
	"github.com/okian/gdax/internal/adapters/notify"
	"github.com/okian/gdax/internal/adapters/repository"
	"github.com/okian/gdax/internal/domain/diagnosis"
	model "github.com/okian/gdax/internal/domain/model"
	logging "github.com/okian/gdax/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockStore struct {
	mu        sync.Mutex
	surveys   map[int64]model.SurveyResponse
	generated map[int64]int
	sent      map[int64]int
	markErr   error
}

func newMockStore(surveys ...model.SurveyResponse) *mockStore {
	s := &mockStore{
		surveys:   make(map[int64]model.SurveyResponse),
		generated: make(map[int64]int),
		sent:      make(map[int64]int),
	}
	for _, sv := range surveys {
		s.surveys[sv.ID] = sv
	}
	return s
}

func (s *mockStore) Get(_ context.Context, id int64) (model.SurveyResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sv, ok := s.surveys[id]
	if !ok {
		return model.SurveyResponse{}, fmt.Errorf("survey %d: %w", id, repository.ErrNotFound)
	}
	return sv, nil
}

func (s *mockStore) MarkReportGenerated(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.markErr != nil {
		return s.markErr
	}
	s.generated[id]++
	return nil
}

func (s *mockStore) MarkReportSent(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent[id]++
	return nil
}

func (s *mockStore) counts(id int64) (generated, sent int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generated[id], s.sent[id]
}

type mockNotifier struct {
	mu       sync.Mutex
	messages []notify.Message
	err      error
}

func (n *mockNotifier) Notify(_ context.Context, m notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.messages = append(n.messages, m)
	return nil
}

func (n *mockNotifier) sentMessages() []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Message(nil), n.messages...)
}

type mockQueue struct {
	jobs chan queue.Job
}

func (q *mockQueue) Dequeue(context.Context) <-chan queue.Job { return q.jobs }

func validSurvey(id int64) model.SurveyResponse {
	return model.SurveyResponse{
		ID:          id,
		CompanyName: fmt.Sprintf("company-%d", id),
		CEOName:     "김대표",
		Answers: model.Answers{
			ClimateRisk1: 5, ClimateRisk2: 5, ClimateRisk3: 5,
			DigitalUrgency1: 1, DigitalUrgency2: 1, DigitalUrgency3: 1,
			EmploymentStatus1: 4, EmploymentStatus2: 1, EmploymentStatus3: 1, EmploymentStatus4: 1,
			ReadinessLevel: 3,
		},
		Contact:   model.Contact{Name: "이담당", Email: "hr@example.com"},
		CreatedAt: time.Date(2025, 1, 15, 3, 0, 0, 0, time.UTC),
	}
}

func newEngine() *diagnosis.Engine {
	return diagnosis.NewEngine(diagnosis.WithClock(func() time.Time {
		return time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)
	}))
}

func TestWorkerProcess(t *testing.T) {
	convey.Convey("Given a worker with a store, engine and notifier", t, func() {
		convey.So(logging.Init(logging.WithOutput(io.Discard)), convey.ShouldBeNil)
		store := newMockStore(validSurvey(1))
		notifier := &mockNotifier{}
		w := worker.NewInMemoryWorker(&mockQueue{}, store, newEngine(), notifier,
			worker.WithName("test-worker"), worker.WithBaseURL("https://gdax.example.kr"))
		ctx := context.Background()

		convey.Convey("When processing an initial job", func() {
			err := w.Process(ctx, model.ReportJob{ID: "j1", SurveyID: 1, Mode: model.ReportModeInitial})

			convey.Convey("Then the report should be generated, sent and stamped today", func() {
				convey.So(err, convey.ShouldBeNil)
				generated, sent := store.counts(1)
				convey.So(generated, convey.ShouldEqual, 1)
				convey.So(sent, convey.ShouldEqual, 1)

				msgs := notifier.sentMessages()
				convey.So(msgs, convey.ShouldHaveLength, 1)
				convey.So(msgs[0].ReportURL, convey.ShouldEqual, "https://gdax.example.kr/report/1")
				convey.So(msgs[0].DiagnosisDate, convey.ShouldEqual, "2025-06-01")
				convey.So(msgs[0].Resend, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When processing a resend job", func() {
			err := w.Process(ctx, model.ReportJob{ID: "j2", SurveyID: 1, Mode: model.ReportModeResend})

			convey.Convey("Then the message should carry the submission date", func() {
				convey.So(err, convey.ShouldBeNil)
				msgs := notifier.sentMessages()
				convey.So(msgs, convey.ShouldHaveLength, 1)
				convey.So(msgs[0].DiagnosisDate, convey.ShouldEqual, "2025-01-15")
				convey.So(msgs[0].Resend, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the survey is unknown", func() {
			err := w.Process(ctx, model.ReportJob{ID: "j3", SurveyID: 99, Mode: model.ReportModeInitial})

			convey.Convey("Then it should fail with ErrNotFound and send nothing", func() {
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
				convey.So(notifier.sentMessages(), convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When the stored answers are malformed", func() {
			bad := validSurvey(2)
			bad.Answers.ReadinessLevel = 0
			store.surveys[2] = bad
			err := w.Process(ctx, model.ReportJob{ID: "j4", SurveyID: 2, Mode: model.ReportModeInitial})

			convey.Convey("Then no flag should be set", func() {
				convey.So(errors.Is(err, diagnosis.ErrInvalidSurvey), convey.ShouldBeTrue)
				generated, sent := store.counts(2)
				convey.So(generated, convey.ShouldEqual, 0)
				convey.So(sent, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the notifier fails", func() {
			notifier.err = errors.New("smtp down")
			err := w.Process(ctx, model.ReportJob{ID: "j5", SurveyID: 1, Mode: model.ReportModeInitial})

			convey.Convey("Then the report should be generated but not marked sent", func() {
				convey.So(err, convey.ShouldNotBeNil)
				generated, sent := store.counts(1)
				convey.So(generated, convey.ShouldEqual, 1)
				convey.So(sent, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When marking the report generated fails", func() {
			store.markErr = errors.New("disk full")
			err := w.Process(ctx, model.ReportJob{ID: "j6", SurveyID: 1, Mode: model.ReportModeInitial})

			convey.Convey("Then nothing should be sent", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(notifier.sentMessages(), convey.ShouldBeEmpty)
			})
		})
	})
}

func TestWorkerShutdown(t *testing.T) {
	convey.Convey("Given a running worker on an idle queue", t, func() {
		convey.So(logging.Init(logging.WithOutput(io.Discard)), convey.ShouldBeNil)
		w := worker.NewInMemoryWorker(&mockQueue{jobs: make(chan queue.Job)}, newMockStore(), newEngine(), &mockNotifier{})
		go w.Run(context.Background())

		convey.Convey("When shutting it down", func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			convey.Convey("Then it should stop in time and tolerate a second call", func() {
				convey.So(w.Shutdown(ctx), convey.ShouldBeNil)
				convey.So(w.Shutdown(ctx), convey.ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool on a real queue", t, func() {
		convey.So(logging.Init(logging.WithOutput(io.Discard)), convey.ShouldBeNil)

		const surveys = 20
		var all []model.SurveyResponse
		for i := int64(1); i <= surveys; i++ {
			all = append(all, validSurvey(i))
		}
		store := newMockStore(all...)
		notifier := &mockNotifier{}
		q := queue.NewInMemoryQueue(queue.WithCapacity(surveys))
		pool := worker.NewPool(3, q, store, newEngine(), notifier)
		convey.So(pool.Size(), convey.ShouldEqual, 3)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.Convey("When jobs are queued and the pool shuts down", func() {
			for i := int64(1); i <= surveys; i++ {
				convey.So(q.Enqueue(ctx, model.ReportJob{ID: fmt.Sprint(i), SurveyID: i, Mode: model.ReportModeInitial}), convey.ShouldBeNil)
			}
			err := pool.Shutdown(context.Background())

			convey.Convey("Then every queued job should have been drained", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(notifier.sentMessages(), convey.ShouldHaveLength, surveys)
				for i := int64(1); i <= surveys; i++ {
					_, sent := store.counts(i)
					convey.So(sent, convey.ShouldEqual, 1)
				}
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})
}
