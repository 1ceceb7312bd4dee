package utils

// SMALL floors divisors in the closure kernels
const SMALL = 1.e-16
