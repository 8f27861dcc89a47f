package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granempresa/erp-portal/modules/logging/domain/entities/actionlog"
	"github.com/granempresa/erp-portal/modules/logging/domain/entities/authenticationlog"
	"github.com/granempresa/erp-portal/pkg/serrors"
)

type mockAuthLogRepo struct {
	lastParams *authenticationlog.FindParams
	created    []*authenticationlog.AuthenticationLog
}

func (m *mockAuthLogRepo) List(_ context.Context, params *authenticationlog.FindParams) ([]*authenticationlog.AuthenticationLog, error) {
	m.lastParams = params
	return nil, nil
}

func (m *mockAuthLogRepo) Count(context.Context, *authenticationlog.FindParams) (int64, error) {
	return 0, nil
}

func (m *mockAuthLogRepo) Create(_ context.Context, log *authenticationlog.AuthenticationLog) error {
	m.created = append(m.created, log)
	return nil
}

type mockActionLogRepo struct {
	lastParams *actionlog.FindParams
	total      int64
	err        error
}

func (m *mockActionLogRepo) List(_ context.Context, params *actionlog.FindParams) ([]*actionlog.ActionLog, error) {
	m.lastParams = params
	if m.err != nil {
		return nil, m.err
	}
	return []*actionlog.ActionLog{{Module: "rrhh"}}, nil
}

func (m *mockActionLogRepo) Count(context.Context, *actionlog.FindParams) (int64, error) {
	return m.total, nil
}

func (m *mockActionLogRepo) Create(context.Context, *actionlog.ActionLog) error {
	return nil
}

func TestLogsService_ListActionLogs_BuildsParams(t *testing.T) {
	actions := &mockActionLogRepo{total: 51}
	svc := NewLogsService(&mockAuthLogRepo{}, actions)

	page, err := svc.ListActionLogs(context.Background(), Query{
		Module: "rrhh",
		Desde:  "2024-05-01",
		Hasta:  "2024-05-01",
		Page:   3,
		Limit:  25,
	})
	require.NoError(t, err)

	p := actions.lastParams
	require.NotNil(t, p)
	assert.Equal(t, "rrhh", p.Module)
	assert.Equal(t, 25, p.Limit)
	assert.Equal(t, 50, p.Offset)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), *p.From)
	assert.Equal(t, time.Date(2024, 5, 1, 23, 59, 59, 999999999, time.UTC), *p.To)

	assert.Equal(t, 51, page.Total)
	assert.Equal(t, 3, page.Pages)
	assert.Equal(t, 3, page.Page)
	assert.Len(t, page.Data, 1)
}

func TestLogsService_ListAuthenticationLogs_Defaults(t *testing.T) {
	logins := &mockAuthLogRepo{}
	svc := NewLogsService(logins, &mockActionLogRepo{})

	page, err := svc.ListAuthenticationLogs(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, defaultLimit, logins.lastParams.Limit)
	assert.Equal(t, 0, logins.lastParams.Offset)
	assert.Nil(t, logins.lastParams.From)
	assert.NotNil(t, page.Data)
	assert.Equal(t, 0, page.Pages)
}

func TestLogsService_RejectsInvalidQuery(t *testing.T) {
	actions := &mockActionLogRepo{}
	svc := NewLogsService(&mockAuthLogRepo{}, actions)

	_, err := svc.ListActionLogs(context.Background(), Query{Hasta: "ayer"})
	var ve *serrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Nil(t, actions.lastParams)
}

func TestLogsService_PropagatesRepositoryErrors(t *testing.T) {
	svc := NewLogsService(&mockAuthLogRepo{}, &mockActionLogRepo{err: errors.New("boom")})
	_, err := svc.ListActionLogs(context.Background(), Query{})
	require.EqualError(t, err, "boom")
}

func TestLogsService_Create_ValidatesInput(t *testing.T) {
	logins := &mockAuthLogRepo{}
	svc := NewLogsService(logins, &mockActionLogRepo{})
	require.Error(t, svc.CreateAuthenticationLog(context.Background(), nil))
	require.Error(t, svc.CreateActionLog(context.Background(), nil))
	require.NoError(t, svc.CreateAuthenticationLog(context.Background(), &authenticationlog.AuthenticationLog{UserID: "1"}))
	assert.Len(t, logins.created, 1)
}
