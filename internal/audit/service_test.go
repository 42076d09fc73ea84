package audit

import (
	"errors"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/hospital-records/internal"
	"github.com/frahmantamala/hospital-records/internal/auth"
	"github.com/frahmantamala/hospital-records/pkg/logger"
)

func TestAudit(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Audit Module Suite")
}

type mockRepository struct {
	entries  []*Entry
	failWith error
}

func (m *mockRepository) Append(entry *Entry) error {
	if m.failWith != nil {
		return m.failWith
	}
	entry.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockRepository) GetAll() ([]*Entry, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := make([]*Entry, len(m.entries))
	for i, e := range m.entries {
		// newest first, like the backing query
		out[len(m.entries)-1-i] = e
	}
	return out, nil
}

var _ = ginkgo.Describe("AuditService", func() {
	var (
		service *Service
		repo    *mockRepository
		admin   = &auth.User{ID: 1, Username: "admin", Role: auth.RoleAdmin}
		doctor  = &auth.User{ID: 2, Username: "doctor", Role: auth.RoleDoctor}
	)

	ginkgo.BeforeEach(func() {
		repo = &mockRepository{}
		service = NewService(repo, logger.L())
	})

	ginkgo.Describe("Record", func() {
		ginkgo.It("should capture actor, role and a server-side timestamp", func() {
			before := time.Now()
			err := service.Record(doctor, ActionViewPatients, "viewed 3 records")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.entries).To(gomega.HaveLen(1))
			entry := repo.entries[0]
			gomega.Expect(entry.UserID).To(gomega.Equal(int64(2)))
			gomega.Expect(entry.Role).To(gomega.Equal(auth.RoleDoctor))
			gomega.Expect(entry.Action).To(gomega.Equal(ActionViewPatients))
			gomega.Expect(entry.CreatedAt).To(gomega.BeTemporally(">=", before))
		})

		ginkgo.It("should surface append failures to the caller", func() {
			repo.failWith = errors.New("disk full")

			err := service.Record(admin, ActionAddPatient, "patient 1 added")
			gomega.Expect(errors.Is(err, ErrAppendFailed)).To(gomega.BeTrue())
		})

		ginkgo.It("should refuse to record without an actor", func() {
			err := service.Record(nil, ActionLogin, "")
			gomega.Expect(errors.Is(err, ErrAppendFailed)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("List", func() {
		ginkgo.BeforeEach(func() {
			gomega.Expect(service.Record(admin, ActionLogin, "")).To(gomega.Succeed())
			gomega.Expect(service.Record(doctor, ActionViewPatients, "viewed 0 records")).To(gomega.Succeed())
		})

		ginkgo.It("should be admin only", func() {
			_, err := service.List(doctor)
			gomega.Expect(err).To(gomega.Equal(internal.ErrForbidden))

			_, err = service.List(nil)
			gomega.Expect(err).To(gomega.Equal(internal.ErrForbidden))
		})

		ginkgo.It("should return entries newest first", func() {
			entries, err := service.List(admin)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(len(entries)).To(gomega.BeNumerically(">=", 2))
			gomega.Expect(entries[len(entries)-1].Action).To(gomega.Equal(ActionLogin))
		})

		ginkgo.It("should record the read itself", func() {
			countBefore := len(repo.entries)

			_, err := service.List(admin)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(repo.entries).To(gomega.HaveLen(countBefore + 1))
			last := repo.entries[len(repo.entries)-1]
			gomega.Expect(last.Action).To(gomega.Equal(ActionViewAuditLog))
			gomega.Expect(last.UserID).To(gomega.Equal(admin.ID))
		})
	})
})
