package both_types
