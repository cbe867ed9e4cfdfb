package go_only
