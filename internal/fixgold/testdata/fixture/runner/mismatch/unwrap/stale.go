package unwrap

var stale = ((4))
