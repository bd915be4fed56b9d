package mocks

import (
	"context"
	"warehub/infras/postgres"

	"github.com/jmoiron/sqlx"
)

type transactorImpl struct {
	err error
}

// WithTx implements postgres.Transactor. fn runs with a nil transaction so
// repository mocks can match on gomock.Any().
func (t *transactorImpl) WithTx(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	if t.err != nil {
		return t.err
	}

	return fn(nil)
}

func NewTransactor() postgres.Transactor {
	return &transactorImpl{}
}

// NewFailingTransactor returns a transactor that never opens a transaction.
func NewFailingTransactor(err error) postgres.Transactor {
	return &transactorImpl{err: err}
}
