package repositories_test

import (
	"context"
	"database/sql"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/evn/eom_hradmin/db"
	"github.com/evn/eom_hradmin/internal/models"
	"github.com/evn/eom_hradmin/internal/repositories"
)

var _ = Describe("ShiftRepository", func() {
	var (
		ctx      context.Context
		database *sql.DB
		repo     *repositories.ShiftRepository
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		database, err = sql.Open(db.DriverSQLite, ":memory:")
		Expect(err).NotTo(HaveOccurred())
		database.SetMaxOpenConns(1)
		Expect(db.CreateSchema(database, db.DriverSQLite)).To(Succeed())

		repo = repositories.NewShiftRepository(database)
	})

	AfterEach(func() {
		Expect(database.Close()).To(Succeed())
	})

	newShift := func(name, start, end string) *models.Shift {
		return &models.Shift{Name: name, StartTime: start, EndTime: end}
	}

	It("creates and reads back a shift", func() {
		s := newShift("Утренняя", "07:00", "15:00")
		s.Description = "склад"
		Expect(repo.Create(ctx, s)).To(Succeed())
		Expect(s.ID).To(BeNumerically(">", 0))
		Expect(s.IsActive).To(BeTrue())

		got, err := repo.Get(ctx, s.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Name).To(Equal("Утренняя"))
		Expect(got.StartTime).To(Equal("07:00"))
		Expect(got.EndTime).To(Equal("15:00"))
		Expect(got.Description).To(Equal("склад"))
		Expect(got.IsActive).To(BeTrue())
		Expect(got.CreatedAt).NotTo(BeZero())
	})

	It("returns ErrShiftNotFound for unknown ids", func() {
		_, err := repo.Get(ctx, 42)
		Expect(err).To(MatchError(repositories.ErrShiftNotFound))

		Expect(repo.Update(ctx, &models.Shift{ID: 42, Name: "x", StartTime: "01:00", EndTime: "02:00"})).
			To(MatchError(repositories.ErrShiftNotFound))

		_, err = repo.Deactivate(ctx, 42)
		Expect(err).To(MatchError(repositories.ErrShiftNotFound))
	})

	It("lists active shifts ordered by start time", func() {
		Expect(repo.Create(ctx, newShift("Ночная", "23:00", "07:00"))).To(Succeed())
		Expect(repo.Create(ctx, newShift("Утренняя", "07:00", "15:00"))).To(Succeed())
		Expect(repo.Create(ctx, newShift("Дневная", "15:00", "23:00"))).To(Succeed())

		shifts, err := repo.List(ctx, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(shifts).To(HaveLen(3))
		Expect(shifts[0].Name).To(Equal("Утренняя"))
		Expect(shifts[1].Name).To(Equal("Дневная"))
		Expect(shifts[2].Name).To(Equal("Ночная"))
	})

	It("returns an empty slice when there are no shifts", func() {
		shifts, err := repo.List(ctx, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(shifts).NotTo(BeNil())
		Expect(shifts).To(BeEmpty())
	})

	It("updates fields but keeps the active flag", func() {
		s := newShift("Утренняя", "07:00", "15:00")
		Expect(repo.Create(ctx, s)).To(Succeed())
		_, err := repo.Deactivate(ctx, s.ID)
		Expect(err).NotTo(HaveOccurred())

		s.Name = "Ранняя"
		s.StartTime = "06:00"
		Expect(repo.Update(ctx, s)).To(Succeed())

		got, err := repo.Get(ctx, s.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Name).To(Equal("Ранняя"))
		Expect(got.StartTime).To(Equal("06:00"))
		Expect(got.IsActive).To(BeFalse())
	})

	It("deactivates without deleting", func() {
		s := newShift("Утренняя", "07:00", "15:00")
		Expect(repo.Create(ctx, s)).To(Succeed())

		got, err := repo.Deactivate(ctx, s.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.IsActive).To(BeFalse())

		active, err := repo.List(ctx, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(active).To(BeEmpty())

		all, err := repo.List(ctx, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(1))

		again, err := repo.Deactivate(ctx, s.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(again.IsActive).To(BeFalse())
	})

	It("inserts a batch in one transaction", func() {
		batch := []*models.Shift{
			newShift("A", "08:00", "12:00"),
			newShift("B", "12:00", "16:00"),
		}
		Expect(repo.CreateBatch(ctx, batch)).To(Succeed())
		Expect(batch[0].ID).NotTo(Equal(batch[1].ID))

		all, err := repo.List(ctx, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(2))
	})
})
