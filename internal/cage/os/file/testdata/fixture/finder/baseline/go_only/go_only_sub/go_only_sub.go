package go_only_sub
