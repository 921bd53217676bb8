//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/admissions-server/internal/model"
	repo "github.com/dtroode/admissions-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "admissions_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/admissions_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func connect(t *testing.T) *repo.Connection {
	t.Helper()

	conn, err := repo.NewConnection(context.Background(), dsn, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestIdentityRepository(t *testing.T) {
	ctx := context.Background()
	conn := connect(t)
	identities := repo.NewIdentityRepository(conn, "https://school.example.org/reset-password", time.Hour)

	created, err := identities.Create(ctx, model.NewIdentity{Email: "Teacher@Example.org", Password: "pw", DisplayName: "T"})
	require.NoError(t, err)
	assert.Equal(t, "teacher@example.org", created.Email)

	_, err = identities.Create(ctx, model.NewIdentity{Email: "teacher@example.org", Password: "pw2", DisplayName: "T2"})
	assert.ErrorIs(t, err, model.ErrAlreadyExists)

	link, err := identities.GeneratePasswordResetLink(ctx, "teacher@example.org")
	require.NoError(t, err)
	assert.Contains(t, link, "https://school.example.org/reset-password?token=")

	_, err = identities.GeneratePasswordResetLink(ctx, "nobody@example.org")
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, identities.Delete(ctx, created.ID))
	assert.ErrorIs(t, identities.Delete(ctx, created.ID), model.ErrNotFound)

	chosenID := uuid.New()
	chosen, err := identities.Create(ctx, model.NewIdentity{ID: chosenID, Email: "admin@example.org", Password: "pw", DisplayName: "A"})
	require.NoError(t, err)
	assert.Equal(t, chosenID, chosen.ID)
	require.NoError(t, identities.Delete(ctx, chosenID))
}

func TestProfileRepository(t *testing.T) {
	ctx := context.Background()
	conn := connect(t)
	profiles := repo.NewProfileRepository(conn)

	newStudent := func(classID, businessID string) uuid.UUID {
		id := uuid.New()
		err := profiles.Create(ctx,
			model.Profile{IdentityID: id, Email: id.String() + "@example.org", DisplayName: "S", Role: model.RoleStudent, Status: model.StatusActive},
			&model.StudentRecord{
				IdentityID:     id,
				BusinessID:     model.BusinessID(businessID),
				Email:          id.String() + "@example.org",
				FullName:       "S",
				Guardian:       model.Guardian{FatherName: "F", MotherName: "M", FatherMobile: "1", MotherMobile: "2"},
				ClassID:        classID,
				AdmissionEpoch: "2025-2026",
				AdmissionYear:  "2025",
				DOB:            "2014-01-01",
				Gender:         "male",
				Status:         model.StatusActive,
			})
		require.NoError(t, err)
		return id
	}

	a1 := newStudent("class-a", "SCHL-NA-NA-S0001")
	a2 := newStudent("class-a", "SCHL-NA-NA-S0002")
	b1 := newStudent("class-b", "SCHL-NA-NA-S0003")

	t.Run("audience is limited to the class", func(t *testing.T) {
		classA, err := profiles.ListIdentityIDsByClass(ctx, "class-a")
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{a1, a2}, classA)
		assert.NotContains(t, classA, b1)

		none, err := profiles.ListIdentityIDsByClass(ctx, "class-z")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("duplicate business id rolls back the profile", func(t *testing.T) {
		id := uuid.New()
		err := profiles.Create(ctx,
			model.Profile{IdentityID: id, Email: "dup@example.org", DisplayName: "D", Role: model.RoleStudent, Status: model.StatusActive},
			&model.StudentRecord{IdentityID: id, BusinessID: "SCHL-NA-NA-S0001", ClassID: "class-a", Status: model.StatusActive},
		)
		assert.ErrorIs(t, err, model.ErrAlreadyExists)

		_, err = profiles.GetByID(ctx, id)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("student record round trip", func(t *testing.T) {
		rec, err := profiles.GetStudentRecord(ctx, a1)
		require.NoError(t, err)
		assert.Equal(t, model.BusinessID("SCHL-NA-NA-S0001"), rec.BusinessID)
		assert.Nil(t, rec.RollNumber)
		assert.Equal(t, "M", rec.Guardian.MotherName)
	})

	t.Run("delivery token and image key", func(t *testing.T) {
		require.NoError(t, profiles.SetDeliveryToken(ctx, a1, "device-a1"))
		require.NoError(t, profiles.SetImageKey(ctx, a1, "profiles/a1/img"))

		token, err := profiles.GetDeliveryToken(ctx, a1)
		require.NoError(t, err)
		assert.Equal(t, "device-a1", token)

		p, err := profiles.GetByID(ctx, a1)
		require.NoError(t, err)
		assert.Equal(t, "profiles/a1/img", p.ImageKey)

		assert.ErrorIs(t, profiles.SetDeliveryToken(ctx, uuid.New(), "x"), model.ErrNotFound)
	})

	t.Run("staff profile has no student record", func(t *testing.T) {
		id := uuid.New()
		require.NoError(t, profiles.Create(ctx,
			model.Profile{IdentityID: id, Email: "staff@example.org", DisplayName: "Staff", Role: model.RoleTeacher, Status: model.StatusActive},
			nil))

		_, err := profiles.GetStudentRecord(ctx, id)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestCounterRepository_ConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	conn := connect(t)
	counters := repo.NewCounterRepository(conn)
	key := model.CounterKey{Namespace: model.AdmissionCounterNamespace, Scope: "2030-2031"}

	v, err := counters.Load(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, v)

	const workers = 20
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[int64]bool{}
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				cur, err := counters.Load(ctx, key)
				if !assert.NoError(t, err) {
					return
				}
				ok, err := counters.CompareAndSwap(ctx, key, cur, cur+1)
				if !assert.NoError(t, err) {
					return
				}
				if ok {
					mu.Lock()
					seen[cur+1] = true
					mu.Unlock()
					return
				}
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers)
	v, err = counters.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(workers), v)

	ok, err := counters.CompareAndSwap(ctx, key, 3, 4)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOrgConfigRepository(t *testing.T) {
	ctx := context.Background()
	conn := connect(t)
	orgConfig := repo.NewOrgConfigRepository(conn)

	_, err := orgConfig.Get(ctx)
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, orgConfig.Put(ctx, model.OrgConfig{IDPrefix: "PSA", LocationCode: "BLR", BranchCode: "01"}))
	cfg, err := orgConfig.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.OrgConfig{IDPrefix: "PSA", LocationCode: "BLR", BranchCode: "01"}, cfg)
}
