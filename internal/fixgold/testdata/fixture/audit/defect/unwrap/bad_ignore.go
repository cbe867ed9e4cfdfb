package unwrap

var d = ((4)) //fixgold:ignore unwrap
