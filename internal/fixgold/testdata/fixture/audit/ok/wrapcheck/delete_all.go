package wrapcheck
